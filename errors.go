package doxify

import "errors"

// Sentinel errors for library operations.
var (
	// ErrFrontmatter marks a malformed frontmatter block. The wrapped error
	// also matches frontmatter.ErrUnterminated or frontmatter.ErrInvalid.
	ErrFrontmatter = errors.New("invalid frontmatter")

	// ErrUnsupportedFormat rejects a format tag other than markdown or mdx.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrContentTooLarge rejects input above the configured size limit.
	ErrContentTooLarge = errors.New("content too large")

	// ErrInternal reports a recovered panic inside the pipeline.
	ErrInternal = errors.New("internal error")
)
