package render

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// CSS classes keep the markup small and leave colors to a stylesheet.
var highlightFormatter = chromahtml.New(chromahtml.WithClasses(true))

// highlight tokenizes code with the lexer registered for lang and returns
// the formatted markup as HTML nodes. It reports false for unknown languages
// so the caller can fall back to a plain code block.
func highlight(lang, code string) ([]*html.Node, bool) {
	lexer := lexers.Get(lang)
	if lexer == nil {
		return nil, false
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return nil, false
	}
	var buf strings.Builder
	if err := highlightFormatter.Format(&buf, styles.Fallback, iterator); err != nil {
		return nil, false
	}

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(buf.String()), body)
	if err != nil {
		return nil, false
	}
	return nodes, true
}

// HighlightCSS returns the stylesheet for the classes emitted by
// WithHighlighting. Unknown style names fall back to chroma's default style.
func HighlightCSS(style string) (string, error) {
	var buf strings.Builder
	if err := highlightFormatter.WriteCSS(&buf, styles.Get(style)); err != nil {
		return "", err
	}
	return buf.String(), nil
}
