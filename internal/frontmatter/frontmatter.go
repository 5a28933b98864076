// Package frontmatter splits a document into its YAML frontmatter mapping and
// the remaining markup body.
//
// A frontmatter block starts on the very first line with "---" and ends at the
// next line holding "---" or "...". Documents without an opening delimiter are
// returned untouched with empty metadata.
package frontmatter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/doxify/go-doxify/internal/yamlutil"
)

// Sentinel errors for frontmatter extraction.
var (
	ErrUnterminated = errors.New("frontmatter block is not terminated")
	ErrInvalid      = errors.New("frontmatter is not a valid YAML mapping")
)

const (
	openDelimiter  = "---"
	closeDelimiter = "---"
	closeDocEnd    = "..."
)

// Metadata is the decoded frontmatter mapping.
type Metadata map[string]any

// Block locates a frontmatter block inside a source document.
type Block struct {
	YAML string // content between the delimiter lines
	Body string // everything after the closing delimiter line
	Line int    // 1-based line of the closing delimiter
}

// Split locates the frontmatter block without decoding it.
// ok is false when the document does not open with a delimiter line.
func Split(source string) (block Block, ok bool, err error) {
	first, rest, found := cutLine(source)
	if !isDelimiter(first, openDelimiter) {
		return Block{}, false, nil
	}
	if !found {
		return Block{}, true, fmt.Errorf("%w: opened on line 1", ErrUnterminated)
	}

	start := len(source) - len(rest)
	offset := start
	for line := 2; ; line++ {
		current, remaining, more := cutLine(source[offset:])
		if isDelimiter(current, closeDelimiter) || isDelimiter(current, closeDocEnd) {
			return Block{
				YAML: source[start:offset],
				Body: remaining,
				Line: line,
			}, true, nil
		}
		if !more {
			break
		}
		offset = len(source) - len(remaining)
	}
	return Block{}, true, fmt.Errorf("%w: opened on line 1", ErrUnterminated)
}

// Extract splits source into metadata and body. Without frontmatter the
// metadata is empty and body equals source.
func Extract(source string) (Metadata, string, error) {
	block, ok, err := Split(source)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return Metadata{}, source, nil
	}

	if strings.TrimSpace(block.YAML) == "" {
		return Metadata{}, block.Body, nil
	}

	m, err := yamlutil.DecodeMapping([]byte(block.YAML))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return Metadata(m), block.Body, nil
}

// cutLine returns the first line of s without its terminator, the text after
// the terminator, and whether a terminator was found.
func cutLine(s string) (line, rest string, found bool) {
	i := strings.IndexByte(s, '\n')
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+1:], true
}

// isDelimiter reports whether line is delim followed only by spaces, tabs or
// a carriage return.
func isDelimiter(line, delim string) bool {
	if !strings.HasPrefix(line, delim) {
		return false
	}
	return strings.TrimRight(line[len(delim):], " \t\r") == ""
}
