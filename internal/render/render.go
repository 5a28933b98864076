// Package render turns a document tree into an HTML string.
//
// The tree is first mapped onto a golang.org/x/net/html node tree and then
// serialized with html.Render, so every text node and attribute value is
// escaped by the serializer. Raw HTML found in the source is emitted as text.
package render

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/doxify/go-doxify/internal/tree"
)

// ErrRender indicates the HTML tree could not be serialized.
var ErrRender = errors.New("HTML rendering failed")

// Renderer converts trees to HTML. Safe for concurrent use.
type Renderer struct {
	highlightStyle string
	sanitizer      *bluemonday.Policy
	baseURL        *url.URL
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithHighlighting renders fenced code with a known language through chroma
// using CSS classes. The style name only matters for HighlightCSS.
func WithHighlighting(style string) Option {
	return func(r *Renderer) {
		r.highlightStyle = style
	}
}

// WithSanitizer filters the serialized HTML through policy.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(r *Renderer) {
		r.sanitizer = policy
	}
}

// WithBaseURL resolves relative link and image URLs against base.
func WithBaseURL(base *url.URL) Option {
	return func(r *Renderer) {
		r.baseURL = base
	}
}

// New creates a Renderer. Without options it emits plain HTML with directive
// attributes passed through unchanged.
func New(opts ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render serializes root to an HTML fragment.
func (r *Renderer) Render(root *tree.Node) (string, error) {
	container := &html.Node{Type: html.DocumentNode}
	if root != nil {
		r.document(container, root)
	}
	if r.baseURL != nil {
		rewriteRelativeURLs(container, r.baseURL)
	}

	var buf strings.Builder
	for c := container.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("%w: %v", ErrRender, err)
		}
	}

	out := buf.String()
	if r.sanitizer != nil {
		out = r.sanitizer.Sanitize(out)
	}
	return out, nil
}

// document renders top-level nodes and gathers footnote definitions into a
// trailing section.
func (r *Renderer) document(parent *html.Node, root *tree.Node) {
	var footnotes []*tree.Node
	for _, c := range root.Children {
		if c.Kind == tree.KindFootnoteDefinition {
			footnotes = append(footnotes, c)
			continue
		}
		r.node(parent, c)
	}
	if len(footnotes) > 0 {
		r.footnoteSection(parent, footnotes)
	}
}

func (r *Renderer) children(parent *html.Node, n *tree.Node) {
	for _, c := range n.Children {
		r.node(parent, c)
	}
}

// node appends the HTML for n to parent. Block elements are followed by a
// newline so the output stays line oriented.
func (r *Renderer) node(parent *html.Node, n *tree.Node) {
	switch n.Kind {
	case tree.KindDocument:
		r.document(parent, n)

	case tree.KindHeading:
		h := element(headingAtom(n.Depth))
		if n.ID != "" {
			setAttr(h, "id", n.ID)
		}
		r.children(h, n)
		appendBlock(parent, h)

	case tree.KindParagraph:
		p := element(atom.P)
		r.children(p, n)
		appendBlock(parent, p)

	case tree.KindText:
		parent.AppendChild(text(n.Value))

	case tree.KindEmphasis:
		r.inline(parent, atom.Em, n)

	case tree.KindStrong:
		r.inline(parent, atom.Strong, n)

	case tree.KindDelete:
		r.inline(parent, atom.Del, n)

	case tree.KindInlineCode:
		code := element(atom.Code)
		code.AppendChild(text(n.Value))
		parent.AppendChild(code)

	case tree.KindBreak:
		parent.AppendChild(element(atom.Br))
		parent.AppendChild(text("\n"))

	case tree.KindCode:
		r.code(parent, n)

	case tree.KindBlockquote:
		bq := element(atom.Blockquote)
		bq.AppendChild(text("\n"))
		r.children(bq, n)
		appendBlock(parent, bq)

	case tree.KindList:
		r.list(parent, n)

	case tree.KindListItem:
		r.listItem(parent, n)

	case tree.KindThematicBreak:
		appendBlock(parent, element(atom.Hr))

	case tree.KindTable:
		r.table(parent, n)

	case tree.KindLink:
		a := element(atom.A)
		if href, ok := safeURL(n.URL); ok {
			setAttr(a, "href", href)
		}
		if n.Title != "" {
			setAttr(a, "title", n.Title)
		}
		r.children(a, n)
		parent.AppendChild(a)

	case tree.KindImage:
		img := element(atom.Img)
		if src, ok := safeURL(n.URL); ok {
			setAttr(img, "src", src)
		}
		setAttr(img, "alt", n.Alt)
		if n.Title != "" {
			setAttr(img, "title", n.Title)
		}
		parent.AppendChild(img)

	case tree.KindHTML:
		parent.AppendChild(text(n.Value))

	case tree.KindContainerDirective, tree.KindLeafDirective, tree.KindTextDirective:
		r.directive(parent, n)

	case tree.KindFootnoteReference:
		sup := element(atom.Sup)
		setAttr(sup, "id", "fnref:"+n.Label)
		a := element(atom.A)
		setAttr(a, "href", "#fn:"+n.Label)
		setAttr(a, "class", "footnote-ref")
		setAttr(a, "role", "doc-noteref")
		a.AppendChild(text(n.Label))
		sup.AppendChild(a)
		parent.AppendChild(sup)

	case tree.KindFootnoteDefinition:
		r.footnoteSection(parent, []*tree.Node{n})

	default:
		r.children(parent, n)
	}
}

func (r *Renderer) inline(parent *html.Node, tag atom.Atom, n *tree.Node) {
	el := element(tag)
	r.children(el, n)
	parent.AppendChild(el)
}

func (r *Renderer) code(parent *html.Node, n *tree.Node) {
	if r.highlightStyle != "" && n.Lang != "" {
		if nodes, ok := highlight(n.Lang, n.Value); ok {
			for _, hn := range nodes {
				parent.AppendChild(hn)
			}
			parent.AppendChild(text("\n"))
			return
		}
	}

	pre := element(atom.Pre)
	code := element(atom.Code)
	if n.Lang != "" {
		setAttr(code, "class", "language-"+n.Lang)
	}
	if n.Value != "" {
		code.AppendChild(text(n.Value + "\n"))
	}
	pre.AppendChild(code)
	appendBlock(parent, pre)
}

func (r *Renderer) list(parent *html.Node, n *tree.Node) {
	tag := atom.Ul
	if n.Ordered {
		tag = atom.Ol
	}
	list := element(tag)
	if n.Ordered && n.Start != 1 {
		setAttr(list, "start", strconv.Itoa(n.Start))
	}
	list.AppendChild(text("\n"))
	r.children(list, n)
	appendBlock(parent, list)
}

// listItem renders paragraphs of tight items without a <p> wrapper.
func (r *Renderer) listItem(parent *html.Node, n *tree.Node) {
	li := element(atom.Li)
	if n.Checked != nil {
		input := element(atom.Input)
		if *n.Checked {
			setAttr(input, "checked", "")
		}
		setAttr(input, "disabled", "")
		setAttr(input, "type", "checkbox")
		li.AppendChild(input)
		li.AppendChild(text(" "))
	}
	for i, c := range n.Children {
		if c.Kind == tree.KindParagraph && !n.Spread {
			if i > 0 {
				li.AppendChild(text("\n"))
			}
			r.children(li, c)
			continue
		}
		if (i == 0) == n.Spread {
			li.AppendChild(text("\n"))
		}
		r.node(li, c)
	}
	appendBlock(parent, li)
}

func (r *Renderer) table(parent *html.Node, n *tree.Node) {
	table := element(atom.Table)
	table.AppendChild(text("\n"))

	var body *html.Node
	for _, row := range n.Children {
		cellTag := atom.Td
		section := body
		if row.Header {
			cellTag = atom.Th
			section = element(atom.Thead)
			section.AppendChild(text("\n"))
			appendBlock(table, section)
		} else if body == nil {
			body = element(atom.Tbody)
			body.AppendChild(text("\n"))
			appendBlock(table, body)
			section = body
		}

		tr := element(atom.Tr)
		tr.AppendChild(text("\n"))
		for i, cell := range row.Children {
			td := element(cellTag)
			if i < len(n.Align) && n.Align[i] != tree.AlignNone {
				setAttr(td, "align", n.Align[i].String())
			}
			r.children(td, cell)
			appendBlock(tr, td)
		}
		appendBlock(section, tr)
	}
	appendBlock(parent, table)
}

func (r *Renderer) footnoteSection(parent *html.Node, defs []*tree.Node) {
	section := element(atom.Section)
	setAttr(section, "class", "footnotes")
	setAttr(section, "role", "doc-endnotes")
	section.AppendChild(text("\n"))
	appendBlock(section, element(atom.Hr))

	ol := element(atom.Ol)
	ol.AppendChild(text("\n"))
	for _, def := range defs {
		ref := strconv.Itoa(def.Index)
		li := element(atom.Li)
		setAttr(li, "id", "fn:"+ref)
		li.AppendChild(text("\n"))
		r.children(li, def)

		back := element(atom.A)
		setAttr(back, "href", "#fnref:"+ref)
		setAttr(back, "class", "footnote-backref")
		setAttr(back, "role", "doc-backlink")
		back.AppendChild(text("↩︎"))
		if p := lastElement(li); p != nil && p.DataAtom == atom.P {
			p.AppendChild(text(" "))
			p.AppendChild(back)
		} else {
			li.AppendChild(back)
		}
		appendBlock(ol, li)
	}
	appendBlock(section, ol)
	appendBlock(parent, section)
}

// safeURL escapes u for an attribute and reports false for script-capable schemes.
func safeURL(u string) (string, bool) {
	escaped := util.URLEscape([]byte(u), false)
	if gmhtml.IsDangerousURL(escaped) {
		return "", false
	}
	return string(escaped), true
}

var headingAtoms = [...]atom.Atom{atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6}

func headingAtom(depth int) atom.Atom {
	return headingAtoms[min(max(depth, 1), 6)-1]
}

func element(tag atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: tag, Data: tag.String()}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func setAttr(n *html.Node, key, val string) {
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// appendBlock appends a block element followed by a newline.
func appendBlock(parent, child *html.Node) {
	parent.AppendChild(child)
	parent.AppendChild(text("\n"))
}

func lastElement(n *html.Node) *html.Node {
	for c := n.LastChild; c != nil; c = c.PrevSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return nil
}
