package syntax

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/util"

	"github.com/doxify/go-doxify/internal/tree"
)

// Parser priorities. Only the directive parsers trigger on ':', so the
// block value only has to beat the paragraph parser (1000).
const (
	priorityDirectiveBlock  = 550
	priorityDirectiveInline = 900
)

// DirectiveForm tells block directives apart.
type DirectiveForm uint8

const (
	// FormContainer is a ":::name" fence that wraps block content.
	FormContainer DirectiveForm = iota
	// FormLeaf is a single "::name" line.
	FormLeaf
)

// KindDirective is the goldmark node kind of block directives.
var KindDirective = ast.NewNodeKind("Directive")

// Directive is a container or leaf directive in the goldmark AST.
// A container's bracketed label is its first paragraph child; a leaf's
// label is parsed as its inline content.
type Directive struct {
	ast.BaseBlock
	Form  DirectiveForm
	Name  string
	Attrs tree.Attributes

	fence int
}

// Kind implements ast.Node.
func (n *Directive) Kind() ast.NodeKind { return KindDirective }

// Dump implements ast.Node.
func (n *Directive) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Name": n.Name,
		"Form": formNames[n.Form],
	}, nil)
}

var formNames = map[DirectiveForm]string{
	FormContainer: "container",
	FormLeaf:      "leaf",
}

// KindTextDirective is the goldmark node kind of inline directives.
var KindTextDirective = ast.NewNodeKind("TextDirective")

// TextDirective is a ":name[label]{attrs}" inline directive. The label,
// when present, is kept as a single text child holding its raw source; the
// tree conversion parses it as inline markdown.
type TextDirective struct {
	ast.BaseInline
	Name  string
	Attrs tree.Attributes
}

// Kind implements ast.Node.
func (n *TextDirective) Kind() ast.NodeKind { return KindTextDirective }

// Dump implements ast.Node.
func (n *TextDirective) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Name": n.Name}, nil)
}

var (
	_ ast.Node = (*Directive)(nil)
	_ ast.Node = (*TextDirective)(nil)
)

type directiveExtension struct{}

// Directives is a goldmark extension adding container, leaf and text
// directives.
var Directives goldmark.Extender = &directiveExtension{}

// Extend implements goldmark.Extender.
func (e *directiveExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(
			util.Prioritized(&directiveBlockParser{}, priorityDirectiveBlock),
		),
		parser.WithInlineParsers(
			util.Prioritized(&textDirectiveParser{}, priorityDirectiveInline),
		),
	)
}
