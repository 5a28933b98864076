package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/doxify/go-doxify/internal/config"
	"github.com/doxify/go-doxify/internal/fileutil"
)

// filePermissions for written results: rw-r--r--.
const filePermissions = 0o644

// Sentinel errors for batch operations.
var (
	ErrReadInput   = errors.New("failed to read input")
	ErrWriteOutput = errors.New("failed to write output")
)

// processFunc turns one document into output bytes.
type processFunc func(ctx context.Context, in inputFile, content string) ([]byte, error)

// fileResult holds the outcome of a single document.
type fileResult struct {
	Input    inputFile
	Output   []byte // kept only when Input.OutputPath is empty
	Err      error
	Duration time.Duration
}

// batch runs documents through a bounded worker pool.
type batch struct {
	workers int
	stdin   io.Reader
	logger  zerolog.Logger
}

// run processes files concurrently. Results keep the order of files.
func (b *batch) run(ctx context.Context, files []inputFile, process processFunc) []fileResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := max(1, min(b.workers, len(files)))
	b.logger.Debug().Int("files", len(files)).Int("workers", concurrency).Msg("starting batch")

	stdin := b.readStdinOnce()
	results := make([]fileResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for range concurrency {
		wg.Go(func() {
			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = fileResult{Input: files[idx], Err: ctx.Err()}
					continue
				}
				results[idx] = b.processFile(ctx, files[idx], stdin, process)
			}
		})
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// processFile reads, processes and optionally writes one document.
func (b *batch) processFile(ctx context.Context, f inputFile, stdin func() ([]byte, error), process processFunc) (result fileResult) {
	start := time.Now()
	result = fileResult{Input: f}
	defer func() {
		result.Duration = time.Since(start)
	}()

	var content []byte
	var err error
	if f.IsStdin() {
		content, err = stdin()
	} else {
		content, err = os.ReadFile(f.Path) // #nosec G304 -- discovered path
	}
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrReadInput, err)
		return result
	}

	out, err := process(ctx, f, string(content))
	if err != nil {
		result.Err = err
		return result
	}

	if f.OutputPath == "" {
		result.Output = out
		return result
	}
	if err := fileutil.WriteFileAtomic(f.OutputPath, out, filePermissions); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrWriteOutput, err)
		return result
	}

	b.logger.Debug().Str("input", f.DisplayName()).Str("output", f.OutputPath).Msg("wrote output")
	return result
}

// readStdinOnce returns a reader that consumes stdin at most once.
func (b *batch) readStdinOnce() func() ([]byte, error) {
	return sync.OnceValues(func() ([]byte, error) {
		if b.stdin == nil {
			return nil, ErrNoInput
		}
		return io.ReadAll(b.stdin)
	})
}

// resolveWorkers determines the worker count.
// Priority: explicit value > GOMAXPROCS (adjusted by automaxprocs for containers).
func resolveWorkers(n int) int {
	if n > 0 {
		return n
	}
	return max(1, min(runtime.GOMAXPROCS(0), config.MaxWorkers))
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > config.MaxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, config.MaxWorkers)
	}
	return nil
}

// ResultSummary holds the count of succeeded and failed documents.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed documents.
func countResults(results []fileResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// reportResults writes stdout outputs in input order, prints status lines,
// and returns an error wrapping the first failure.
// separator is written between consecutive stdout outputs.
func reportResults(results []fileResult, separator string, quiet, verbose bool, env *Environment) error {
	summary := countResults(results)

	var firstErr error
	wroteStdout := false
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.Input.DisplayName(), r.Err)
			if firstErr == nil {
				firstErr = r.Err
			}
			continue
		}

		if r.Input.OutputPath == "" {
			if wroteStdout && separator != "" {
				fmt.Fprint(env.Stdout, separator)
			}
			if _, err := env.Stdout.Write(r.Output); err != nil {
				return fmt.Errorf("%w: %v", ErrWriteOutput, err)
			}
			wroteStdout = true
			continue
		}

		if quiet {
			continue
		}
		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.Input.DisplayName(), r.Input.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.Input.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stderr, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	if firstErr != nil {
		return fmt.Errorf("%d of %d document(s) failed: %w", summary.Failed, len(results), firstErr)
	}
	return nil
}
