package syntax

import (
	"bytes"
	"slices"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// directiveBlockParser opens ":::name[label]{attrs}" containers and
// "::name[label]{attrs}" leaves. A line that does not match the grammar
// exactly is left to the paragraph parser. An unnamed ":::" opens a
// container only outside a paragraph and only when a closing fence
// follows somewhere below it.
type directiveBlockParser struct{}

var (
	fenceOwnerKey = parser.NewContextKey()
	fenceIndexKey = parser.NewContextKey()
)

var _ parser.BlockParser = (*directiveBlockParser)(nil)

func (b *directiveBlockParser) Trigger() []byte {
	return []byte{':'}
}

func (b *directiveBlockParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || line[pos] != ':' {
		return nil, parser.NoChildren
	}

	i := pos
	for i < len(line) && line[i] == ':' {
		i++
	}
	colons := i - pos
	if colons < 2 {
		return nil, parser.NoChildren
	}

	node := &Directive{Form: FormContainer, fence: colons}
	if colons == 2 {
		node.Form = FormLeaf
	}
	node.Name, i = scanName(line, i)
	if node.Form == FormLeaf && node.Name == "" {
		return nil, parser.NoChildren
	}

	var label text.Segment
	hasLabel := false
	base := segment.Start - segment.Padding
	if i < len(line) && line[i] == '[' {
		start, stop, next, ok := scanLabel(line, i)
		if !ok {
			return nil, parser.NoChildren
		}
		label = text.NewSegment(base+start, base+stop)
		hasLabel = stop > start
		i = next
	}
	if i < len(line) && line[i] == '{' {
		attrs, next, ok := scanAttributes(line, i)
		if !ok {
			return nil, parser.NoChildren
		}
		node.Attrs = attrs
		i = next
	}
	if !isBlankFrom(line, i) {
		return nil, parser.NoChildren
	}
	if node.Form == FormContainer && node.Name == "" {
		if last := pc.LastOpenedBlock().Node; last != nil && last.Kind() == ast.KindParagraph {
			return nil, parser.NoChildren
		}
		if !fenceIndexOf(reader, pc).closedAfter(segment.Stop, colons) {
			return nil, parser.NoChildren
		}
	}

	if node.Form == FormLeaf {
		if hasLabel {
			node.Lines().Append(label)
		}
		return node, parser.NoChildren
	}

	if hasLabel {
		para := ast.NewParagraph()
		para.Lines().Append(label)
		node.AppendChild(node, para)
	}
	reader.Advance(segment.Len() - newlineLength(line))
	return node, parser.HasChildren
}

func (b *directiveBlockParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	d := node.(*Directive)
	if d.Form == FormLeaf {
		return parser.Close
	}

	// Fence lines inside an open code block belong to the code.
	if last := pc.LastOpenedBlock().Node; last != nil && last != node && last.Kind() == ast.KindFencedCodeBlock {
		return parser.Continue | parser.HasChildren
	}

	line, segment := reader.PeekLine()
	n := closingFence(line)
	if n < d.fence || fenceOwner(reader, n, pc) != node {
		return parser.Continue | parser.HasChildren
	}
	reader.Advance(segment.Len() - newlineLength(line))
	return parser.Close
}

func (b *directiveBlockParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {}

func (b *directiveBlockParser) CanInterruptParagraph() bool {
	return true
}

func (b *directiveBlockParser) CanAcceptIndentedLine() bool {
	return false
}

// closingFence returns the number of colons on a line made only of colons
// and trailing whitespace, or 0 when the line is not a closing fence.
func closingFence(line []byte) int {
	w, pos := util.IndentWidth(line, 0)
	if w > 3 {
		return 0
	}
	i := pos
	for i < len(line) && line[i] == ':' {
		i++
	}
	if n := i - pos; n >= 3 && isBlankFrom(line, i) {
		return n
	}
	return 0
}

// fenceOwner returns the innermost open container closed by a fence of n
// colons on the current line. Every open container asks on a fence line, so
// the answer is cached per line.
func fenceOwner(reader text.Reader, n int, pc parser.Context) ast.Node {
	lineNum, _ := reader.Position()
	if o, ok := pc.Get(fenceOwnerKey).(*ownedFence); ok && o.line == lineNum && o.fence == n {
		return o.node
	}
	o := &ownedFence{line: lineNum, fence: n}
	opened := pc.OpenedBlocks()
	for i := len(opened) - 1; i >= 0; i-- {
		if d, ok := opened[i].Node.(*Directive); ok && d.Form == FormContainer && n >= d.fence {
			o.node = d
			break
		}
	}
	pc.Set(fenceOwnerKey, o)
	return o.node
}

type ownedFence struct {
	line  int
	fence int
	node  ast.Node
}

// fenceIndex lists the lines of a source that look like closing fences,
// ignoring blockquote markers and indentation. longest[i] is the longest
// fence at or after starts[i].
type fenceIndex struct {
	starts  []int
	longest []int
}

func fenceIndexOf(reader text.Reader, pc parser.Context) *fenceIndex {
	if idx, ok := pc.Get(fenceIndexKey).(*fenceIndex); ok {
		return idx
	}
	idx := buildFenceIndex(reader.Source())
	pc.Set(fenceIndexKey, idx)
	return idx
}

func buildFenceIndex(source []byte) *fenceIndex {
	idx := &fenceIndex{}
	var fences []int
	for pos := 0; pos < len(source); {
		end := len(source)
		if nl := bytes.IndexByte(source[pos:], '\n'); nl >= 0 {
			end = pos + nl + 1
		}
		if n := looseFence(source[pos:end]); n > 0 {
			idx.starts = append(idx.starts, pos)
			fences = append(fences, n)
		}
		pos = end
	}
	idx.longest = make([]int, len(fences))
	for i := len(fences) - 1; i >= 0; i-- {
		idx.longest[i] = fences[i]
		if i+1 < len(fences) {
			idx.longest[i] = max(fences[i], idx.longest[i+1])
		}
	}
	return idx
}

// closedAfter reports whether a fence of at least n colons starts at or
// after offset.
func (idx *fenceIndex) closedAfter(offset, n int) bool {
	i, _ := slices.BinarySearch(idx.starts, offset)
	return i < len(idx.starts) && idx.longest[i] >= n
}

// looseFence is closingFence after any blockquote markers and indentation.
func looseFence(line []byte) int {
	i := 0
	for i < len(line) && (isSpaceOrTab(line[i]) || line[i] == '>') {
		i++
	}
	j := i
	for j < len(line) && line[j] == ':' {
		j++
	}
	if n := j - i; n >= 3 && isBlankFrom(line, j) {
		return n
	}
	return 0
}

func newlineLength(line []byte) int {
	if len(line) > 0 && line[len(line)-1] == '\n' {
		return 1
	}
	return 0
}
