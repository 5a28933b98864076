package main

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/doxify/go-doxify"
	"github.com/doxify/go-doxify/internal/config"
	"github.com/doxify/go-doxify/internal/fileutil"
	"github.com/doxify/go-doxify/internal/hints"
	"github.com/doxify/go-doxify/internal/logging"
)

// settings bundles what every command needs once configuration is resolved.
type settings struct {
	cfg    *config.Config
	logger zerolog.Logger
	parser *doxify.Parser
}

// loadSettings resolves configuration in precedence order
// (flags > env > config file > defaults), validates it, and builds the
// logger and parser. merge applies command specific flags.
func loadSettings(common *commonFlags, env *Environment, merge func(*config.Config)) (*settings, error) {
	envCfg := loadEnvConfig(env.Getenv)
	warnUnknownEnvVars(env.Stderr, env.Environ())

	cfg := config.DefaultConfig()
	name := common.config
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(name) {
				return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.UserConfigPath(name)))
			}
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)
	if merge != nil {
		merge(cfg)
	}
	if common.verbose {
		cfg.Log.Level = logging.LevelDebug
	}
	if common.quiet {
		cfg.Log.Level = logging.LevelError
	}
	if common.logJSON {
		cfg.Log.Format = logging.FormatJSON
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, env.Stderr)
	if err != nil {
		return nil, err
	}

	parser, err := newParser(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &settings{cfg: cfg, logger: logger, parser: parser}, nil
}

// mergeParserFlags merges parser flags into config. CLI values override config values.
func mergeParserFlags(f *parserFlags, cfg *config.Config) {
	if f.maxContentSize > 0 {
		cfg.Parser.MaxContentSize = f.maxContentSize
	}
	if f.maxDepth > 0 {
		cfg.Parser.MaxNestingDepth = f.maxDepth
	}
	if f.baseURL != "" {
		cfg.Parser.BaseURL = f.baseURL
	}
}

// mergeHTMLFlags merges HTML output flags into config.
func mergeHTMLFlags(highlight string, sanitize bool, cfg *config.Config) {
	if highlight != "" {
		cfg.Parser.Highlight = highlight
	}
	if sanitize {
		cfg.Parser.Sanitize = true
	}
}

// newParser builds a library Parser from validated configuration.
func newParser(cfg *config.Config, logger zerolog.Logger) (*doxify.Parser, error) {
	opts := []doxify.Option{
		doxify.WithLogger(logging.Component(logger, "parser")),
		doxify.WithMaxContentSize(cfg.Parser.MaxContentSize),
		doxify.WithMaxNestingDepth(cfg.Parser.MaxNestingDepth),
	}
	if cfg.Parser.Highlight != "" {
		opts = append(opts, doxify.WithHighlighting(cfg.Parser.Highlight))
	}
	if cfg.Parser.Sanitize {
		opts = append(opts, doxify.WithSanitizer(doxify.DefaultSanitizer()))
	}
	if cfg.Parser.BaseURL != "" {
		base, err := config.ParseBaseURL(cfg.Parser.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
		opts = append(opts, doxify.WithBaseURL(base))
	}
	return doxify.NewParser(opts...), nil
}

// resolveFormatFlag validates --format. Empty means detect per file.
func resolveFormatFlag(name string) (doxify.Format, error) {
	if name == "" {
		return "", nil
	}
	return doxify.ParseFormat(name)
}
