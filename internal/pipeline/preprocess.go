package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// byteOrderMark is stripped from the start of the input so that a leading
// frontmatter delimiter is still recognized.
const byteOrderMark = "\uFEFF"

// Precompiled regex patterns for performance.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)
)

// InputPreprocessor prepares raw documents for the grammar.
type InputPreprocessor struct{}

// Preprocess strips a byte order mark, converts \r\n and \r to \n and
// replaces NUL characters with U+FFFD.
func (p *InputPreprocessor) Preprocess(ctx context.Context, content string) string {
	// Check for cancellation before processing
	if ctx.Err() != nil {
		return content
	}

	content = strings.TrimPrefix(content, byteOrderMark)
	content = normalizeLineEndings(content)
	content = replaceNUL(content)
	return content
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	if !strings.Contains(content, "\r") {
		return content
	}
	return crlfOrCR.ReplaceAllString(content, "\n")
}

func replaceNUL(content string) string {
	return strings.ReplaceAll(content, "\x00", "\uFFFD")
}
