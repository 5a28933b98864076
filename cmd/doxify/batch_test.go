package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/doxify/go-doxify/internal/config"
)

// upperProcess returns the content upper-cased, failing on "fail".
func upperProcess(_ context.Context, _ inputFile, content string) ([]byte, error) {
	if strings.Contains(content, "fail") {
		return nil, errors.New("refused")
	}
	return []byte(strings.ToUpper(content)), nil
}

// ---------------------------------------------------------------------------
// TestBatchRun - Worker pool processing
// ---------------------------------------------------------------------------

func TestBatchRun(t *testing.T) {
	t.Parallel()

	t.Run("keeps input order", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		var files []inputFile
		for i := range 20 {
			path := writeFile(t, dir, fmt.Sprintf("f%02d.md", i), fmt.Sprintf("doc %d", i))
			files = append(files, inputFile{Path: path})
		}

		b := &batch{workers: 4, logger: zerolog.Nop()}
		results := b.run(context.Background(), files, upperProcess)

		if len(results) != len(files) {
			t.Fatalf("len(results) = %d, want %d", len(results), len(files))
		}
		for i, r := range results {
			if r.Err != nil {
				t.Fatalf("result %d error: %v", i, r.Err)
			}
			if want := fmt.Sprintf("DOC %d", i); string(r.Output) != want {
				t.Errorf("result %d = %q, want %q", i, r.Output, want)
			}
		}
	})

	t.Run("stdin read once", func(t *testing.T) {
		t.Parallel()

		b := &batch{workers: 2, stdin: strings.NewReader("from stdin"), logger: zerolog.Nop()}
		results := b.run(context.Background(), []inputFile{{Path: stdinArg}}, upperProcess)

		if results[0].Err != nil {
			t.Fatalf("unexpected error: %v", results[0].Err)
		}
		if string(results[0].Output) != "FROM STDIN" {
			t.Errorf("Output = %q, want FROM STDIN", results[0].Output)
		}
	})

	t.Run("writes output files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := writeFile(t, dir, "a.md", "hello")
		out := filepath.Join(dir, "out", "nested", "a.json")

		b := &batch{workers: 1, logger: zerolog.Nop()}
		results := b.run(context.Background(), []inputFile{{Path: in, OutputPath: out}}, upperProcess)

		if results[0].Err != nil {
			t.Fatalf("unexpected error: %v", results[0].Err)
		}
		if results[0].Output != nil {
			t.Errorf("Output kept for file result: %q", results[0].Output)
		}
		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatalf("reading output: %v", err)
		}
		if string(data) != "HELLO" {
			t.Errorf("file content = %q, want HELLO", data)
		}
	})

	t.Run("failures are per file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		files := []inputFile{
			{Path: writeFile(t, dir, "ok.md", "ok")},
			{Path: writeFile(t, dir, "bad.md", "fail")},
			{Path: filepath.Join(dir, "missing.md")},
		}

		b := &batch{workers: 3, logger: zerolog.Nop()}
		results := b.run(context.Background(), files, upperProcess)

		if results[0].Err != nil {
			t.Errorf("ok.md error: %v", results[0].Err)
		}
		if results[1].Err == nil || results[1].Err.Error() != "refused" {
			t.Errorf("bad.md error = %v, want refused", results[1].Err)
		}
		if !errors.Is(results[2].Err, ErrReadInput) {
			t.Errorf("missing.md error = %v, want ErrReadInput", results[2].Err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var calls atomic.Int32
		b := &batch{workers: 2, logger: zerolog.Nop()}
		results := b.run(ctx, []inputFile{{Path: "a.md"}, {Path: "b.md"}},
			func(context.Context, inputFile, string) ([]byte, error) {
				calls.Add(1)
				return nil, nil
			})

		for i, r := range results {
			if !errors.Is(r.Err, context.Canceled) {
				t.Errorf("result %d error = %v, want context.Canceled", i, r.Err)
			}
		}
		if calls.Load() != 0 {
			t.Errorf("process called %d times after cancel", calls.Load())
		}
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		b := &batch{workers: 2, logger: zerolog.Nop()}
		if results := b.run(context.Background(), nil, upperProcess); results != nil {
			t.Errorf("results = %v, want nil", results)
		}
	})
}

// ---------------------------------------------------------------------------
// TestResolveWorkers - Worker count resolution
// ---------------------------------------------------------------------------

func TestResolveWorkers(t *testing.T) {
	t.Parallel()

	if got := resolveWorkers(5); got != 5 {
		t.Errorf("resolveWorkers(5) = %d, want 5", got)
	}
	want := max(1, min(runtime.GOMAXPROCS(0), config.MaxWorkers))
	if got := resolveWorkers(0); got != want {
		t.Errorf("resolveWorkers(0) = %d, want %d", got, want)
	}
}

// ---------------------------------------------------------------------------
// TestValidateWorkers - Worker bounds
// ---------------------------------------------------------------------------

func TestValidateWorkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n       int
		wantErr bool
	}{
		{0, false},
		{1, false},
		{config.MaxWorkers, false},
		{-1, true},
		{config.MaxWorkers + 1, true},
	}
	for _, tt := range tests {
		err := validateWorkers(tt.n)
		if tt.wantErr && !errors.Is(err, ErrInvalidWorkerCount) {
			t.Errorf("validateWorkers(%d) = %v, want ErrInvalidWorkerCount", tt.n, err)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("validateWorkers(%d) unexpected error: %v", tt.n, err)
		}
	}
}

// ---------------------------------------------------------------------------
// TestReportResults - Output ordering and status lines
// ---------------------------------------------------------------------------

func TestReportResults(t *testing.T) {
	t.Parallel()

	t.Run("stdout outputs joined by separator", func(t *testing.T) {
		t.Parallel()

		env, stdout, stderr := testEnv("", nil)
		results := []fileResult{
			{Input: inputFile{Path: "a.md"}, Output: []byte("a: 1\n")},
			{Input: inputFile{Path: "b.md"}, Output: []byte("b: 2\n")},
		}

		if err := reportResults(results, "---\n", false, false, env); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := stdout.String(); got != "a: 1\n---\nb: 2\n" {
			t.Errorf("stdout = %q", got)
		}
		if !strings.Contains(stderr.String(), "2 succeeded, 0 failed") {
			t.Errorf("stderr missing summary:\n%s", stderr.String())
		}
	})

	t.Run("file outputs and failures", func(t *testing.T) {
		t.Parallel()

		env, stdout, stderr := testEnv("", nil)
		cause := fmt.Errorf("%w: boom", ErrReadInput)
		results := []fileResult{
			{Input: inputFile{Path: "a.md", OutputPath: "out/a.json"}},
			{Input: inputFile{Path: "b.md", OutputPath: "out/b.json"}, Err: cause},
		}

		err := reportResults(results, "", false, false, env)
		if !errors.Is(err, ErrReadInput) {
			t.Fatalf("error = %v, want wrapping ErrReadInput", err)
		}
		if !strings.Contains(err.Error(), "1 of 2 document(s) failed") {
			t.Errorf("error = %q, want failure count", err)
		}
		if !strings.Contains(stdout.String(), "Created out/a.json") {
			t.Errorf("stdout missing Created line:\n%s", stdout.String())
		}
		if !strings.Contains(stderr.String(), "FAILED b.md:") {
			t.Errorf("stderr missing FAILED line:\n%s", stderr.String())
		}
	})

	t.Run("quiet suppresses status", func(t *testing.T) {
		t.Parallel()

		env, stdout, stderr := testEnv("", nil)
		results := []fileResult{
			{Input: inputFile{Path: "a.md", OutputPath: "out/a.json"}},
			{Input: inputFile{Path: "b.md", OutputPath: "out/b.json"}},
		}
		if err := reportResults(results, "", true, false, env); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stdout.Len() != 0 || stderr.String() != "" {
			t.Errorf("quiet output: stdout=%q stderr=%q", stdout.String(), stderr.String())
		}
	})

	t.Run("verbose shows mapping", func(t *testing.T) {
		t.Parallel()

		env, stdout, _ := testEnv("", nil)
		results := []fileResult{{Input: inputFile{Path: "a.md", OutputPath: "out/a.json"}}}
		if err := reportResults(results, "", false, true, env); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout.String(), "a.md -> out/a.json") {
			t.Errorf("stdout missing mapping:\n%s", stdout.String())
		}
	})
}
