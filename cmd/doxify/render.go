package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/doxify/go-doxify"
	"github.com/doxify/go-doxify/internal/config"
)

// runRender orchestrates the render command.
func runRender(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseRenderFlags(args, env.Stderr)
	if err != nil {
		return usageError(err)
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}
	forced, err := resolveFormatFlag(flags.parser.format)
	if err != nil {
		return err
	}

	st, err := loadSettings(&flags.common, env, func(cfg *config.Config) {
		mergeParserFlags(&flags.parser, cfg)
		mergeHTMLFlags(flags.highlight, flags.sanitize, cfg)
		if flags.output != "" {
			cfg.Output.Dir = flags.output
		}
		if flags.workers > 0 {
			cfg.Batch.Workers = flags.workers
		}
	})
	if err != nil {
		return err
	}

	// Stylesheet is resolved once for the whole batch.
	var css string
	if flags.page && st.cfg.Parser.Highlight != "" {
		css, err = doxify.HighlightCSS(st.cfg.Parser.Highlight)
		if err != nil {
			return fmt.Errorf("building highlight stylesheet: %w", err)
		}
	}

	files, err := discoverInputs(positional, st.cfg.Output.Dir, ".html", forced)
	if err != nil {
		return fmt.Errorf("discovering inputs: %w", err)
	}

	b := &batch{
		workers: resolveWorkers(st.cfg.Batch.Workers),
		stdin:   env.Stdin,
		logger:  st.logger,
	}
	results := b.run(ctx, files, func(ctx context.Context, in inputFile, content string) ([]byte, error) {
		html, err := st.parser.Render(ctx, content, in.Format)
		if err != nil {
			return nil, err
		}
		if flags.page {
			html = doxify.Page(html, pageTitle(in), css)
		}
		return []byte(html), nil
	})

	return reportResults(results, "", flags.common.quiet, flags.common.verbose, env)
}

// pageTitle derives a document title from the input file name.
func pageTitle(in inputFile) string {
	if in.IsStdin() {
		return ""
	}
	base := filepath.Base(in.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
