package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/doxify/go-doxify/internal/config"
)

// envPrefix marks doxify environment variables.
const envPrefix = "DOXIFY_"

// envConfig holds configuration from environment variables.
// Provides container-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath     string // DOXIFY_CONFIG: config file name or path
	Addr           string // DOXIFY_ADDR: serve listen address
	Workers        int    // DOXIFY_WORKERS: parallel workers
	LogLevel       string // DOXIFY_LOG_LEVEL: debug, info, warn, error
	LogFormat      string // DOXIFY_LOG_FORMAT: console, json
	MaxContentSize int    // DOXIFY_MAX_CONTENT_SIZE: bytes
	Highlight      string // DOXIFY_HIGHLIGHT: chroma style
	BaseURL        string // DOXIFY_BASE_URL: base for relative links
}

// knownEnvVars lists valid DOXIFY_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"DOXIFY_CONFIG":           true,
	"DOXIFY_ADDR":             true,
	"DOXIFY_WORKERS":          true,
	"DOXIFY_LOG_LEVEL":        true,
	"DOXIFY_LOG_FORMAT":       true,
	"DOXIFY_MAX_CONTENT_SIZE": true,
	"DOXIFY_HIGHLIGHT":        true,
	"DOXIFY_BASE_URL":         true,
}

// loadEnvConfig reads configuration from environment variables.
// Numeric values that do not parse as positive integers are ignored.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath: getenv("DOXIFY_CONFIG"),
		Addr:       getenv("DOXIFY_ADDR"),
		LogLevel:   getenv("DOXIFY_LOG_LEVEL"),
		LogFormat:  getenv("DOXIFY_LOG_FORMAT"),
		Highlight:  getenv("DOXIFY_HIGHLIGHT"),
		BaseURL:    getenv("DOXIFY_BASE_URL"),
	}

	if workers := getenv("DOXIFY_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	if size := getenv("DOXIFY_MAX_CONTENT_SIZE"); size != "" {
		if n, err := strconv.Atoi(size); err == nil && n > 0 {
			cfg.MaxContentSize = n
		}
	}

	return cfg
}

// warnUnknownEnvVars prints warnings for unrecognized DOXIFY_* variables.
// Helps catch typos like DOXIFY_WORKER instead of DOXIFY_WORKERS.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, env := range environ {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig overlays environment values on cfg.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Addr != "" {
		cfg.Server.Addr = env.Addr
	}
	if env.Workers > 0 {
		cfg.Batch.Workers = env.Workers
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
	if env.LogFormat != "" {
		cfg.Log.Format = env.LogFormat
	}
	if env.MaxContentSize > 0 {
		cfg.Parser.MaxContentSize = env.MaxContentSize
	}
	if env.Highlight != "" {
		cfg.Parser.Highlight = env.Highlight
	}
	if env.BaseURL != "" {
		cfg.Parser.BaseURL = env.BaseURL
	}
}
