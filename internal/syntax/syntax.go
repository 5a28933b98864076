// Package syntax turns a markdown body into a tree.Node document.
//
// Parsing uses goldmark with GitHub Flavored Markdown, footnotes, automatic
// heading ids and the ":::" directive extension from this package. The
// goldmark AST is converted into the package-independent tree so that the
// block extractor and renderer never touch goldmark types.
package syntax

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/doxify/go-doxify/internal/tree"
)

// DefaultMaxDepth bounds tree nesting. Deeper content collapses into text.
const DefaultMaxDepth = 256

// Parser converts markdown into trees. Safe for concurrent use.
type Parser struct {
	md       goldmark.Markdown
	maxDepth int
}

// Option configures a Parser.
type Option func(*Parser)

// WithMaxDepth sets the nesting limit. Values below 1 keep the default.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		if depth > 0 {
			p.maxDepth = depth
		}
	}
}

// New creates a Parser.
func New(opts ...Option) *Parser {
	p := &Parser{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Footnote,
				Directives,
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses body into a document tree. It never fails: malformed markup
// degrades to text.
func (p *Parser) Parse(body []byte) *tree.Node {
	doc := p.md.Parser().Parse(text.NewReader(body))
	c := &converter{source: body, maxDepth: p.maxDepth, md: p.md}
	return c.document(doc)
}
