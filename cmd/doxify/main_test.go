package main

// Notes:
// - Commands run through run() with an injected Environment, so stdout,
//   stderr, stdin and environment lookups never touch the real process.
// - Worker goroutines may log concurrently, so stderr uses syncBuffer.
// These are acceptable gaps: signal delivery and os.Exit are not exercised.

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"testing"

	"github.com/doxify/go-doxify"
	"github.com/doxify/go-doxify/internal/config"
	"github.com/doxify/go-doxify/internal/fileutil"
)

// syncBuffer is a bytes.Buffer safe for concurrent writers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// testEnv builds an Environment with in-memory I/O and the given variables.
func testEnv(stdin string, vars map[string]string) (*Environment, *bytes.Buffer, *syncBuffer) {
	stdout := &bytes.Buffer{}
	stderr := &syncBuffer{}
	env := DefaultEnv()
	env.Stdin = strings.NewReader(stdin)
	env.Stdout = stdout
	env.Stderr = stderr
	env.Getenv = func(k string) string { return vars[k] }
	env.Environ = func() []string {
		out := make([]string, 0, len(vars))
		for k, v := range vars {
			out = append(out, k+"="+v)
		}
		return out
	}
	return env, stdout, stderr
}

// writeFile creates dir/name with content, creating parents as needed.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// ---------------------------------------------------------------------------
// TestRun - Command dispatch
// ---------------------------------------------------------------------------

func TestRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantErr    error
		wantStdout string
		wantStderr string
	}{
		{
			name:       "no command",
			args:       []string{"doxify"},
			wantErr:    ErrUsage,
			wantStderr: "Usage:",
		},
		{
			name:       "unknown command",
			args:       []string{"doxify", "convert"},
			wantErr:    ErrUnknownCommand,
			wantStderr: "Usage:",
		},
		{
			name:       "version",
			args:       []string{"doxify", "version"},
			wantStdout: "doxify dev",
		},
		{
			name:       "version flag",
			args:       []string{"doxify", "--version"},
			wantStdout: "doxify dev",
		},
		{
			name:       "help",
			args:       []string{"doxify", "help"},
			wantStdout: "parse",
		},
		{
			name:       "help topic",
			args:       []string{"doxify", "help", "serve"},
			wantStdout: "--addr",
		},
		{
			name:    "help unknown topic",
			args:    []string{"doxify", "help", "nope"},
			wantErr: ErrUnknownCommand,
		},
		{
			name: "subcommand help is not an error",
			args: []string{"doxify", "parse", "--help"},
		},
		{
			name:    "unknown flag",
			args:    []string{"doxify", "render", "--bogus"},
			wantErr: ErrUsage,
		},
		{
			name:    "serve rejects arguments",
			args:    []string{"doxify", "serve", "docs"},
			wantErr: ErrUsage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv("", nil)
			err := run(context.Background(), tt.args, env)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("run() error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("run() unexpected error: %v", err)
			}
			if tt.wantStdout != "" && !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout missing %q:\n%s", tt.wantStdout, stdout.String())
			}
			if tt.wantStderr != "" && !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr missing %q:\n%s", tt.wantStderr, stderr.String())
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestUsageError - Flag error classification
// ---------------------------------------------------------------------------

func TestUsageError(t *testing.T) {
	t.Parallel()

	if err := usageError(errors.New("unknown flag: --x")); !errors.Is(err, ErrUsage) {
		t.Errorf("usageError() = %v, want ErrUsage", err)
	}
}

// ---------------------------------------------------------------------------
// TestMaxprocsLogger - Verbose gating
// ---------------------------------------------------------------------------

func TestMaxprocsLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	maxprocsLogger([]string{"doxify", "parse"}, &buf)("set to %d", 2)
	if buf.Len() != 0 {
		t.Errorf("quiet logger wrote %q", buf.String())
	}

	maxprocsLogger([]string{"doxify", "parse", "-v"}, &buf)("set to %d", 2)
	if buf.String() != "set to 2\n" {
		t.Errorf("verbose logger wrote %q, want %q", buf.String(), "set to 2\n")
	}
}

// ---------------------------------------------------------------------------
// TestHintFor - Actionable hints on failure
// ---------------------------------------------------------------------------

func TestHintFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"frontmatter", fmt.Errorf("1 of 1 document(s) failed: %w", doxify.ErrFrontmatter), "--lenient"},
		{"too large", doxify.ErrContentTooLarge, "--max-size"},
		{"not markdown", fileutil.ErrNotMarkdown, "--format"},
		{"unknown style", fmt.Errorf("invalid configuration: %w", config.ErrUnknownStyle), "monokai"},
		{"write output", ErrWriteOutput, "writable"},
		{"addr in use", fmt.Errorf("listening: %w", syscall.EADDRINUSE), "--addr"},
		{"no hint", errors.New("other"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := hintFor(tt.err)
			if tt.want == "" {
				if got != "" {
					t.Errorf("hintFor() = %q, want empty", got)
				}
				return
			}
			if !strings.Contains(got, "hint:") || !strings.Contains(got, tt.want) {
				t.Errorf("hintFor() = %q, want hint mentioning %q", got, tt.want)
			}
		})
	}
}
