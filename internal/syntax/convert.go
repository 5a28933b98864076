package syntax

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/doxify/go-doxify/internal/tree"
)

// converter maps a goldmark AST onto tree nodes. Node kinds without a tree
// equivalent are spliced: their children take their place.
type converter struct {
	source   []byte
	maxDepth int
	md       goldmark.Markdown
}

func (c *converter) document(doc ast.Node) *tree.Node {
	root := &tree.Node{Kind: tree.KindDocument}
	root.Children = c.children(doc, 1)
	return root
}

func (c *converter) children(parent ast.Node, depth int) []*tree.Node {
	var out []*tree.Node
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		out = append(out, c.convert(n, depth)...)
	}
	return mergeText(out)
}

func (c *converter) wrap(node *tree.Node, n ast.Node, depth int) []*tree.Node {
	node.Children = c.children(n, depth+1)
	return []*tree.Node{node}
}

func (c *converter) convert(n ast.Node, depth int) []*tree.Node {
	if depth > c.maxDepth {
		if s := c.flatten(n); s != "" {
			return []*tree.Node{{Kind: tree.KindText, Value: s}}
		}
		return nil
	}

	switch n := n.(type) {
	case *ast.Heading:
		node := &tree.Node{Kind: tree.KindHeading, Depth: n.Level}
		if v, ok := n.AttributeString("id"); ok {
			if id, ok := v.([]byte); ok {
				node.ID = string(id)
			}
		}
		return c.wrap(node, n, depth)

	case *ast.Paragraph, *ast.TextBlock:
		return c.wrap(&tree.Node{Kind: tree.KindParagraph}, n, depth)

	case *ast.Blockquote:
		return c.wrap(&tree.Node{Kind: tree.KindBlockquote}, n, depth)

	case *ast.ThematicBreak:
		return []*tree.Node{{Kind: tree.KindThematicBreak}}

	case *ast.FencedCodeBlock:
		node := &tree.Node{Kind: tree.KindCode, Value: strings.TrimSuffix(c.lines(n), "\n")}
		if n.Info != nil {
			info := strings.TrimSpace(string(unescape(n.Info.Segment.Value(c.source))))
			if i := strings.IndexAny(info, " \t"); i >= 0 {
				node.Lang, node.Meta = info[:i], strings.TrimSpace(info[i:])
			} else {
				node.Lang = info
			}
		}
		return []*tree.Node{node}

	case *ast.CodeBlock:
		return []*tree.Node{{Kind: tree.KindCode, Value: strings.TrimRight(c.lines(n), "\n")}}

	case *ast.HTMLBlock:
		value := c.lines(n)
		if n.HasClosure() {
			closure := n.ClosureLine
			value += string(closure.Value(c.source))
		}
		return []*tree.Node{{Kind: tree.KindHTML, Value: strings.TrimRight(value, "\n")}}

	case *ast.List:
		node := &tree.Node{Kind: tree.KindList, Ordered: n.IsOrdered(), Spread: !n.IsTight}
		if node.Ordered {
			node.Start = n.Start
		}
		return c.wrap(node, n, depth)

	case *ast.ListItem:
		node := &tree.Node{Kind: tree.KindListItem}
		if list, ok := n.Parent().(*ast.List); ok {
			node.Spread = !list.IsTight
		}
		if cb := taskCheckBox(n); cb != nil {
			checked := cb.IsChecked
			node.Checked = &checked
		}
		node.Children = c.children(n, depth+1)
		if node.Checked != nil {
			trimTaskSpace(node)
		}
		return []*tree.Node{node}

	case *ast.Emphasis:
		kind := tree.KindEmphasis
		if n.Level >= 2 {
			kind = tree.KindStrong
		}
		return c.wrap(&tree.Node{Kind: kind}, n, depth)

	case *ast.CodeSpan:
		var sb strings.Builder
		for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
			switch t := ch.(type) {
			case *ast.Text:
				sb.Write(t.Segment.Value(c.source))
			case *ast.String:
				sb.Write(t.Value)
			}
		}
		value := strings.ReplaceAll(sb.String(), "\n", " ")
		return []*tree.Node{{Kind: tree.KindInlineCode, Value: value}}

	case *ast.Text:
		value := n.Segment.Value(c.source)
		if !n.IsRaw() {
			value = unescape(value)
		}
		node := &tree.Node{Kind: tree.KindText, Value: string(value)}
		switch {
		case n.HardLineBreak():
			return []*tree.Node{node, {Kind: tree.KindBreak}}
		case n.SoftLineBreak():
			node.Value += "\n"
		}
		return []*tree.Node{node}

	case *ast.String:
		return []*tree.Node{{Kind: tree.KindText, Value: string(n.Value)}}

	case *ast.Link:
		node := &tree.Node{
			Kind:  tree.KindLink,
			URL:   string(resolveReferences(n.Destination)),
			Title: string(unescape(n.Title)),
		}
		return c.wrap(node, n, depth)

	case *ast.Image:
		node := &tree.Node{
			Kind:  tree.KindImage,
			URL:   string(resolveReferences(n.Destination)),
			Title: string(unescape(n.Title)),
		}
		alt := &tree.Node{Children: c.children(n, depth+1)}
		node.Alt = tree.Text(alt)
		return []*tree.Node{node}

	case *ast.AutoLink:
		node := &tree.Node{Kind: tree.KindLink, URL: string(n.URL(c.source))}
		node.Children = []*tree.Node{{Kind: tree.KindText, Value: string(n.Label(c.source))}}
		return []*tree.Node{node}

	case *ast.RawHTML:
		var sb strings.Builder
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			sb.Write(seg.Value(c.source))
		}
		return []*tree.Node{{Kind: tree.KindHTML, Value: sb.String()}}

	case *extast.Strikethrough:
		return c.wrap(&tree.Node{Kind: tree.KindDelete}, n, depth)

	case *extast.Table:
		node := &tree.Node{Kind: tree.KindTable, Align: make([]tree.Align, len(n.Alignments))}
		for i, a := range n.Alignments {
			node.Align[i] = convertAlign(a)
		}
		return c.wrap(node, n, depth)

	case *extast.TableHeader:
		return c.wrap(&tree.Node{Kind: tree.KindTableRow, Header: true}, n, depth)

	case *extast.TableRow:
		return c.wrap(&tree.Node{Kind: tree.KindTableRow}, n, depth)

	case *extast.TableCell:
		return c.wrap(&tree.Node{Kind: tree.KindTableCell}, n, depth)

	case *extast.TaskCheckBox, *extast.FootnoteBacklink:
		return nil

	case *extast.FootnoteLink:
		return []*tree.Node{{
			Kind:  tree.KindFootnoteReference,
			Label: strconv.Itoa(n.Index),
			Index: n.Index,
		}}

	case *extast.Footnote:
		node := &tree.Node{Kind: tree.KindFootnoteDefinition, Label: string(n.Ref), Index: n.Index}
		return c.wrap(node, n, depth)

	case *Directive:
		kind := tree.KindContainerDirective
		if n.Form == FormLeaf {
			kind = tree.KindLeafDirective
		}
		return c.wrap(&tree.Node{Kind: kind, Name: n.Name, Attributes: n.Attrs}, n, depth)

	case *TextDirective:
		node := &tree.Node{Kind: tree.KindTextDirective, Name: n.Name, Attributes: n.Attrs}
		if label, ok := n.FirstChild().(*ast.Text); ok {
			node.Children = c.label(label.Segment.Value(c.source), depth+1)
		}
		return []*tree.Node{node}
	}

	return c.children(n, depth)
}

// label parses a text directive label as inline markdown. A label that
// would not parse as a single paragraph stays literal.
func (c *converter) label(src []byte, depth int) []*tree.Node {
	if c.md != nil {
		doc := c.md.Parser().Parse(text.NewReader(src))
		if para, ok := doc.FirstChild().(*ast.Paragraph); ok && doc.ChildCount() == 1 {
			sub := &converter{source: src, maxDepth: c.maxDepth, md: c.md}
			return sub.children(para, depth)
		}
	}
	return mergeText([]*tree.Node{{Kind: tree.KindText, Value: string(unescape(src))}})
}

// lines joins the raw source lines of a block.
func (c *converter) lines(n ast.Node) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(c.source))
	}
	return sb.String()
}

// flatten returns the literal text below n without recursion, so content
// nested past the depth limit costs no stack.
func (c *converter) flatten(n ast.Node) string {
	var sb strings.Builder
	stack := []ast.Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch v := cur.(type) {
		case *ast.Text:
			value := v.Segment.Value(c.source)
			if !v.IsRaw() {
				value = unescape(value)
			}
			sb.Write(value)
			if v.SoftLineBreak() || v.HardLineBreak() {
				sb.WriteByte('\n')
			}
			continue
		case *ast.String:
			sb.Write(v.Value)
			continue
		}
		if cur.Type() == ast.TypeBlock && cur.IsRaw() {
			sb.WriteString(c.lines(cur))
			continue
		}
		for ch := cur.LastChild(); ch != nil; ch = ch.PreviousSibling() {
			stack = append(stack, ch)
		}
	}
	return sb.String()
}

func taskCheckBox(item *ast.ListItem) *extast.TaskCheckBox {
	first := item.FirstChild()
	if first == nil {
		return nil
	}
	cb, _ := first.FirstChild().(*extast.TaskCheckBox)
	return cb
}

// trimTaskSpace drops the separator between a task marker and its text.
func trimTaskSpace(item *tree.Node) {
	if len(item.Children) == 0 || len(item.Children[0].Children) == 0 {
		return
	}
	para := item.Children[0]
	first := para.Children[0]
	if first.Kind != tree.KindText {
		return
	}
	first.Value = strings.TrimPrefix(first.Value, " ")
	if first.Value == "" {
		para.Children = para.Children[1:]
	}
}

// mergeText joins adjacent text nodes and drops empty ones.
func mergeText(nodes []*tree.Node) []*tree.Node {
	out := nodes[:0]
	for _, n := range nodes {
		if n.Kind == tree.KindText {
			if n.Value == "" {
				continue
			}
			if k := len(out); k > 0 && out[k-1].Kind == tree.KindText {
				out[k-1].Value += n.Value
				continue
			}
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func convertAlign(a extast.Alignment) tree.Align {
	switch a {
	case extast.AlignLeft:
		return tree.AlignLeft
	case extast.AlignCenter:
		return tree.AlignCenter
	case extast.AlignRight:
		return tree.AlignRight
	}
	return tree.AlignNone
}

// unescape resolves backslash escapes and character references.
func unescape(b []byte) []byte {
	return resolveReferences(util.UnescapePunctuations(b))
}

func resolveReferences(b []byte) []byte {
	return util.ResolveEntityNames(util.ResolveNumericReferences(b))
}
