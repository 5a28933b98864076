// Package pipeline defines the stage contracts of the content pipeline and
// the input preprocessor that runs before frontmatter extraction.
//
// Stages, in order:
//   - input preprocessing (byte order mark, line endings, NUL characters)
//   - frontmatter extraction (internal/frontmatter)
//   - markdown to tree parsing (internal/syntax)
//   - block extraction (internal/blocks) or HTML rendering (internal/render)
//
// The root doxify package wires the default implementations and lets tests
// substitute any stage through these interfaces.
package pipeline
