package logging_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/doxify/go-doxify/internal/logging"
)

// ---------------------------------------------------------------------------
// TestParseLevel - Level names from configuration
// ---------------------------------------------------------------------------

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    zerolog.Level
		wantErr bool
	}{
		{input: "", want: zerolog.InfoLevel},
		{input: "debug", want: zerolog.DebugLevel},
		{input: "INFO", want: zerolog.InfoLevel},
		{input: "warning", want: zerolog.WarnLevel},
		{input: " error ", want: zerolog.ErrorLevel},
		{input: "trace", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := logging.ParseLevel(tt.input)
			if tt.wantErr {
				if !errors.Is(err, logging.ErrInvalidLevel) {
					t.Fatalf("ParseLevel(%q) error = %v, want ErrInvalidLevel", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestNew - Logger output formats and filtering
// ---------------------------------------------------------------------------

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("json format", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger, err := logging.New("info", logging.FormatJSON, &buf)
		if err != nil {
			t.Fatal(err)
		}
		server := logging.Component(logger, "server")
		server.Info().Int("status", 200).Msg("request")

		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("output is not JSON: %v: %s", err, buf.String())
		}
		for key, want := range map[string]any{
			"app":       "doxify",
			"component": "server",
			"level":     "info",
			"message":   "request",
			"status":    float64(200),
		} {
			if entry[key] != want {
				t.Errorf("%s = %v, want %v", key, entry[key], want)
			}
		}
		if _, ok := entry["time"]; !ok {
			t.Error("timestamp missing")
		}
	})

	t.Run("level filters", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger, err := logging.New("warn", logging.FormatJSON, &buf)
		if err != nil {
			t.Fatal(err)
		}
		logger.Info().Msg("hidden")
		logger.Warn().Msg("shown")
		if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
			t.Errorf("unexpected output: %s", buf.String())
		}
	})

	t.Run("console format", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger, err := logging.New("debug", "", &buf)
		if err != nil {
			t.Fatal(err)
		}
		logger.Debug().Str("file", "a.md").Msg("parsed")
		out := buf.String()
		if strings.HasPrefix(out, "{") {
			t.Errorf("console output looks like JSON: %s", out)
		}
		if !strings.Contains(out, "parsed") || !strings.Contains(out, "file=a.md") {
			t.Errorf("console output missing fields: %s", out)
		}
	})

	t.Run("invalid values", func(t *testing.T) {
		t.Parallel()

		if _, err := logging.New("loud", "", &bytes.Buffer{}); !errors.Is(err, logging.ErrInvalidLevel) {
			t.Errorf("error = %v, want ErrInvalidLevel", err)
		}
		if _, err := logging.New("info", "xml", &bytes.Buffer{}); !errors.Is(err, logging.ErrInvalidFormat) {
			t.Errorf("error = %v, want ErrInvalidFormat", err)
		}
	})
}
