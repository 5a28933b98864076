package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/doxify/go-doxify"
	"github.com/doxify/go-doxify/internal/config"
	"github.com/doxify/go-doxify/internal/yamlutil"
)

// encodeFunc serializes a parse result.
type encodeFunc func(*doxify.Result) ([]byte, error)

// encoderFor returns the encoder and stdout separator for an output format.
func encoderFor(format string) (encodeFunc, string) {
	if format == "yaml" {
		return func(r *doxify.Result) ([]byte, error) {
			return yamlutil.Marshal(r)
		}, "---\n"
	}
	return func(r *doxify.Result) ([]byte, error) {
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}, ""
}

// runParse orchestrates the parse command.
func runParse(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseParseFlags(args, env.Stderr)
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
		if flags.outFormat != "" {
			cfg.Output.Format = flags.outFormat
		}
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

	encode, separator := encoderFor(st.cfg.Output.Format)
	files, err := discoverInputs(positional, st.cfg.Output.Dir, "."+st.cfg.Output.Format, forced)
	if err != nil {
		return fmt.Errorf("discovering inputs: %w", err)
	}

	b := &batch{
		workers: resolveWorkers(st.cfg.Batch.Workers),
		stdin:   env.Stdin,
		logger:  st.logger,
	}
	results := b.run(ctx, files, func(ctx context.Context, in inputFile, content string) ([]byte, error) {
		var result *doxify.Result
		if flags.lenient {
			result = st.parser.ParseOrEmpty(ctx, content, in.Format)
		} else {
			var err error
			result, err = st.parser.Parse(ctx, content, in.Format)
			if err != nil {
				return nil, err
			}
		}
		data, err := encode(result)
		if err != nil {
			return nil, fmt.Errorf("encoding result: %w", err)
		}
		return data, nil
	})

	return reportResults(results, separator, flags.common.quiet, flags.common.verbose, env)
}
