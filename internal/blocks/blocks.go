// Package blocks flattens a document tree into the ordered block list that
// page storage and the editor consume.
//
// Extraction is a plain pre-order walk that emits at every matching node,
// including nodes nested under an already emitted one. A paragraph inside a
// blockquote therefore yields a blockquote block and a paragraph block with
// the same text. Stored pages depend on this shape, so it is kept as is.
package blocks

import (
	"github.com/doxify/go-doxify/internal/tree"
)

// DefaultDirectiveType is the block type of a directive written without a name.
const DefaultDirectiveType = "note"

// Block types emitted for non-directive nodes.
const (
	TypeHeading    = "heading"
	TypeParagraph  = "paragraph"
	TypeCode       = "code"
	TypeBlockquote = "blockquote"
	TypeList       = "list"
	TypeImage      = "image"
	TypeLink       = "link"
	TypeTable      = "table"
)

// Block is the stored output unit. Content is plain text or raw source,
// never HTML.
type Block struct {
	Type    string         `json:"type" yaml:"type"`
	Content string         `json:"content" yaml:"content"`
	Lang    string         `json:"lang,omitempty" yaml:"lang,omitempty"`
	Variant string         `json:"variant,omitempty" yaml:"variant,omitempty"`
	Meta    map[string]any `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// Extract walks root in pre-order and returns one block per matching node.
// The result is never nil.
func Extract(root *tree.Node) []Block {
	out := []Block{}
	tree.Walk(root, func(n *tree.Node) bool {
		if b, ok := blockFor(n); ok {
			out = append(out, b)
		}
		return true
	})
	return out
}

// Extractor adapts Extract to a stage value.
type Extractor struct{}

// Extract calls the package-level Extract.
func (Extractor) Extract(root *tree.Node) []Block {
	return Extract(root)
}

func blockFor(n *tree.Node) (Block, bool) {
	switch n.Kind {
	case tree.KindHeading:
		return Block{
			Type:    TypeHeading,
			Content: tree.Text(n),
			Meta:    map[string]any{"depth": n.Depth},
		}, true

	case tree.KindParagraph:
		return Block{Type: TypeParagraph, Content: tree.Text(n)}, true

	case tree.KindCode:
		b := Block{Type: TypeCode, Content: n.Value, Lang: n.Lang}
		if n.Meta != "" {
			b.Meta = map[string]any{"meta": n.Meta}
		}
		return b, true

	case tree.KindBlockquote:
		return Block{Type: TypeBlockquote, Content: tree.Text(n)}, true

	case tree.KindList:
		meta := map[string]any{"ordered": n.Ordered}
		if n.Ordered && n.Start != 1 {
			meta["start"] = n.Start
		}
		return Block{Type: TypeList, Content: tree.Text(n), Meta: meta}, true

	case tree.KindTable:
		return Block{Type: TypeTable, Content: tree.Text(n)}, true

	case tree.KindImage:
		return Block{Type: TypeImage, Content: n.Alt, Meta: urlMeta(n)}, true

	case tree.KindLink:
		return Block{Type: TypeLink, Content: tree.Text(n), Meta: urlMeta(n)}, true

	case tree.KindContainerDirective, tree.KindLeafDirective, tree.KindTextDirective:
		name := n.Name
		if name == "" {
			name = DefaultDirectiveType
		}
		return Block{
			Type:    name,
			Content: tree.Text(n),
			Variant: name,
			Meta:    n.Attributes.Map(),
		}, true
	}
	return Block{}, false
}

func urlMeta(n *tree.Node) map[string]any {
	meta := map[string]any{"url": n.URL}
	if n.Title != "" {
		meta["title"] = n.Title
	}
	return meta
}
