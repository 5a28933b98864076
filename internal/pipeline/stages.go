package pipeline

import (
	"context"

	"github.com/doxify/go-doxify/internal/blocks"
	"github.com/doxify/go-doxify/internal/tree"
)

// Preprocessor normalizes raw input before any parsing.
type Preprocessor interface {
	Preprocess(ctx context.Context, content string) string
}

// TreeParser parses a markdown body into a document tree. Implementations
// must not fail on malformed markup.
type TreeParser interface {
	Parse(body []byte) *tree.Node
}

// HTMLRenderer serializes a document tree to HTML.
type HTMLRenderer interface {
	Render(root *tree.Node) (string, error)
}

// BlockExtractor flattens a document tree into storable blocks.
type BlockExtractor interface {
	Extract(root *tree.Node) []blocks.Block
}
