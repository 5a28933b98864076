package doxify

import (
	"context"
	"fmt"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/doxify/go-doxify/internal/blocks"
	"github.com/doxify/go-doxify/internal/frontmatter"
	"github.com/doxify/go-doxify/internal/pipeline"
	"github.com/doxify/go-doxify/internal/render"
	"github.com/doxify/go-doxify/internal/syntax"
	"github.com/doxify/go-doxify/internal/tree"
)

// Compile-time interface checks.
var (
	_ pipeline.Preprocessor   = (*pipeline.InputPreprocessor)(nil)
	_ pipeline.TreeParser     = (*syntax.Parser)(nil)
	_ pipeline.BlockExtractor = blocks.Extractor{}
	_ pipeline.HTMLRenderer   = (*render.Renderer)(nil)
)

// Parser runs the parse and render pipelines.
// A Parser holds no mutable state and is safe for concurrent use.
type Parser struct {
	cfg    parserConfig
	logger zerolog.Logger

	preprocessor pipeline.Preprocessor
	treeParser   pipeline.TreeParser
	extractor    pipeline.BlockExtractor
	renderer     pipeline.HTMLRenderer
}

// NewParser creates a Parser with the given options.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		cfg: parserConfig{
			maxContentSize: DefaultMaxContentSize,
			maxDepth:       syntax.DefaultMaxDepth,
		},
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	// Stages may be injected by tests.
	if p.preprocessor == nil {
		p.preprocessor = &pipeline.InputPreprocessor{}
	}
	if p.treeParser == nil {
		p.treeParser = syntax.New(syntax.WithMaxDepth(p.cfg.maxDepth))
	}
	if p.extractor == nil {
		p.extractor = blocks.Extractor{}
	}
	if p.renderer == nil {
		var ropts []render.Option
		if p.cfg.highlightStyle != "" {
			ropts = append(ropts, render.WithHighlighting(p.cfg.highlightStyle))
		}
		if p.cfg.sanitizer != nil {
			ropts = append(ropts, render.WithSanitizer(p.cfg.sanitizer))
		}
		if p.cfg.baseURL != nil {
			ropts = append(ropts, render.WithBaseURL(p.cfg.baseURL))
		}
		p.renderer = render.New(ropts...)
	}
	return p
}

// Parse splits content into frontmatter metadata and a block list.
// Result.Raw is content unchanged. Malformed markup never fails; only bad
// frontmatter, an unknown format, or oversized input return an error.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (p *Parser) Parse(ctx context.Context, content string, format Format) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()

	start := time.Now()
	metadata, root, err := p.parseTree(ctx, content, format)
	if err != nil {
		return nil, err
	}

	out := p.extractor.Extract(root)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	p.logger.Debug().
		Str("format", string(normalizeFormat(format))).
		Int("bytes", len(content)).
		Int("blocks", len(out)).
		Dur("elapsed", time.Since(start)).
		Msg("parsed document")

	return &Result{
		Metadata: metadata,
		Blocks:   out,
		Raw:      content,
	}, nil
}

// Render converts content to an HTML fragment. Frontmatter is stripped
// first and follows the same error rules as Parse.
func (p *Parser) Render(ctx context.Context, content string, format Format) (html string, err error) {
	defer func() {
		if r := recover(); r != nil {
			html = ""
			err = fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()

	start := time.Now()
	_, root, err := p.parseTree(ctx, content, format)
	if err != nil {
		return "", err
	}

	html, err = p.renderer.Render(root)
	if err != nil {
		return "", fmt.Errorf("rendering HTML: %w", err)
	}

	p.logger.Debug().
		Str("format", string(normalizeFormat(format))).
		Int("bytes", len(content)).
		Int("html_bytes", len(html)).
		Dur("elapsed", time.Since(start)).
		Msg("rendered document")

	return html, nil
}

// ParseOrEmpty is Parse for write paths that must not fail: any error is
// logged and an empty result carrying the raw content is returned.
func (p *Parser) ParseOrEmpty(ctx context.Context, content string, format Format) *Result {
	result, err := p.Parse(ctx, content, format)
	if err != nil {
		p.logger.Warn().Err(err).Int("bytes", len(content)).Msg("parse failed, storing empty blocks")
		return emptyResult(content)
	}
	return result
}

// parseTree runs the stages shared by Parse and Render.
func (p *Parser) parseTree(ctx context.Context, content string, format Format) (frontmatter.Metadata, *tree.Node, error) {
	if err := format.Validate(); err != nil {
		return nil, nil, err
	}
	if len(content) > p.cfg.maxContentSize {
		return nil, nil, fmt.Errorf("%w: %d bytes (max %d)", ErrContentTooLarge, len(content), p.cfg.maxContentSize)
	}
	if ctx.Err() != nil {
		return nil, nil, ctx.Err()
	}

	normalized := p.preprocessor.Preprocess(ctx, content)
	if ctx.Err() != nil {
		return nil, nil, ctx.Err()
	}

	metadata, body, err := frontmatter.Extract(normalized)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrFrontmatter, err)
	}

	root := p.treeParser.Parse([]byte(body))
	if ctx.Err() != nil {
		return nil, nil, ctx.Err()
	}
	return metadata, root, nil
}

func normalizeFormat(f Format) Format {
	if nf, err := ParseFormat(string(f)); err == nil {
		return nf
	}
	return f
}

var defaultParser = NewParser()

// Parse runs content through a shared default Parser.
func Parse(content string, format Format) (*Result, error) {
	return defaultParser.Parse(context.Background(), content, format)
}

// Render runs content through a shared default Parser.
func Render(content string, format Format) (string, error) {
	return defaultParser.Render(context.Background(), content, format)
}

// HighlightCSS returns the stylesheet for a chroma style, to pair with
// WithHighlighting.
func HighlightCSS(style string) (string, error) {
	return render.HighlightCSS(style)
}

// DefaultSanitizer returns a bluemonday policy that allows user generated
// content plus the class, id and data attributes directives rely on.
func DefaultSanitizer() *bluemonday.Policy {
	return render.DefaultPolicy()
}

// Page wraps an HTML fragment in a standalone document.
func Page(fragment, title, css string) string {
	return render.Page(fragment, title, css)
}
