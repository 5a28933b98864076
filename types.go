package doxify

import (
	"fmt"
	"strings"

	"github.com/doxify/go-doxify/internal/blocks"
)

// Format labels the markup dialect of a document. Both formats go through
// the same grammar; MDX JSX is not parsed.
type Format string

// Supported formats.
const (
	FormatMarkdown Format = "markdown"
	FormatMDX      Format = "mdx"
)

// ParseFormat converts a user supplied format name. Matching ignores case
// and surrounding spaces; an empty name means markdown.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatMarkdown, nil
	case FormatMarkdown, FormatMDX:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q (must be markdown or mdx)", ErrUnsupportedFormat, s)
	}
}

// Validate reports whether f is a supported format. Case and surrounding
// space are ignored, as in ParseFormat; the zero value is markdown.
func (f Format) Validate() error {
	_, err := ParseFormat(string(f))
	return err
}

// Block is the stored output unit:
// {type, content, lang?, variant?, meta?}.
type Block = blocks.Block

// Result is the outcome of Parse.
type Result struct {
	// Metadata is the decoded frontmatter; empty, never nil.
	Metadata map[string]any `json:"metadata" yaml:"metadata"`

	// Blocks lists the extracted blocks in document order; empty, never nil.
	Blocks []Block `json:"blocks" yaml:"blocks"`

	// Raw is the input content, byte for byte.
	Raw string `json:"raw" yaml:"raw"`
}

// emptyResult is the outcome reported when parsing failed but the caller
// needs a storable value.
func emptyResult(content string) *Result {
	return &Result{
		Metadata: map[string]any{},
		Blocks:   []Block{},
		Raw:      content,
	}
}
