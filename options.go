package doxify

import (
	"net/url"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
)

// DefaultMaxContentSize is the largest document accepted by default (10 MiB).
const DefaultMaxContentSize = 10 << 20

// Option configures a Parser.
type Option func(*Parser)

// parserConfig holds internal configuration for Parser.
type parserConfig struct {
	maxContentSize int
	maxDepth       int
	highlightStyle string
	sanitizer      *bluemonday.Policy
	baseURL        *url.URL
}

// WithLogger sets the logger used for debug traces and ParseOrEmpty failures.
// The default logger discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// WithMaxContentSize sets the largest accepted document in bytes.
// Panics if n <= 0 (programmer error, similar to time.NewTicker).
func WithMaxContentSize(n int) Option {
	if n <= 0 {
		panic("doxify: WithMaxContentSize size must be positive")
	}
	return func(p *Parser) {
		p.cfg.maxContentSize = n
	}
}

// WithMaxNestingDepth bounds tree depth; deeper content collapses into text.
// Panics if depth <= 0.
func WithMaxNestingDepth(depth int) Option {
	if depth <= 0 {
		panic("doxify: WithMaxNestingDepth depth must be positive")
	}
	return func(p *Parser) {
		p.cfg.maxDepth = depth
	}
}

// WithHighlighting renders fenced code through chroma with CSS classes.
// Use HighlightCSS(style) for the matching stylesheet.
func WithHighlighting(style string) Option {
	return func(p *Parser) {
		p.cfg.highlightStyle = style
	}
}

// WithSanitizer filters rendered HTML through a bluemonday policy.
// DefaultSanitizer returns a policy that keeps directive class hooks.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(p *Parser) {
		p.cfg.sanitizer = policy
	}
}

// WithBaseURL resolves relative link and image URLs in rendered HTML
// against base.
func WithBaseURL(base *url.URL) Option {
	return func(p *Parser) {
		p.cfg.baseURL = base
	}
}
