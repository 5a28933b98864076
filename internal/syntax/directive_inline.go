package syntax

import (
	"unicode"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// textDirectiveParser parses ":name[label]{attrs}" inside inline content.
// The name is required and the colon must not follow a letter, digit or
// another colon, so URLs and times stay plain text.
type textDirectiveParser struct{}

var _ parser.InlineParser = (*textDirectiveParser)(nil)

func (p *textDirectiveParser) Trigger() []byte {
	return []byte{':'}
}

func (p *textDirectiveParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, segment := block.PeekLine()
	if len(line) < 2 || line[0] != ':' {
		return nil
	}
	if prev := block.PrecendingCharacter(); prev == ':' || unicode.IsLetter(prev) || unicode.IsDigit(prev) {
		return nil
	}

	name, i := scanName(line, 1)
	if name == "" {
		return nil
	}
	node := &TextDirective{Name: name}

	if i < len(line) && line[i] == '[' {
		start, stop, next, ok := scanLabel(line, i)
		if !ok {
			return nil
		}
		if stop > start {
			label := text.NewSegment(segment.Start+start, segment.Start+stop)
			node.AppendChild(node, ast.NewTextSegment(label))
		}
		i = next
	}
	if i < len(line) && line[i] == '{' {
		attrs, next, ok := scanAttributes(line, i)
		if !ok {
			return nil
		}
		node.Attrs = attrs
		i = next
	}

	block.Advance(i)
	return node
}
