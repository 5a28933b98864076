package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Parser.MaxContentSize != DefaultMaxContentSize {
		t.Errorf("Parser.MaxContentSize = %d, want %d", cfg.Parser.MaxContentSize, DefaultMaxContentSize)
	}
	if cfg.Parser.MaxNestingDepth != DefaultMaxNestingDepth {
		t.Errorf("Parser.MaxNestingDepth = %d, want %d", cfg.Parser.MaxNestingDepth, DefaultMaxNestingDepth)
	}
	if cfg.Parser.Highlight != "" || cfg.Parser.Sanitize {
		t.Error("highlighting and sanitizing should default off")
	}
	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, DefaultAddr)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Output.Format = %q, want json", cfg.Output.Format)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestValidateFieldLength(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		maxLength int
		wantErr   bool
	}{
		{name: "empty value is valid", value: "", maxLength: 10},
		{name: "value at limit is valid", value: "1234567890", maxLength: 10},
		{name: "value over limit returns error", value: "12345678901", maxLength: 10, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFieldLength("test.field", tt.value, tt.maxLength)
			if tt.wantErr {
				if !errors.Is(err, ErrFieldTooLong) {
					t.Errorf("error = %v, want ErrFieldTooLong", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults pass", mutate: func(*Config) {}},
		{
			name:    "zero content size",
			mutate:  func(c *Config) { c.Parser.MaxContentSize = 0 },
			wantErr: "parser.maxContentSize",
		},
		{
			name:    "nesting depth too large",
			mutate:  func(c *Config) { c.Parser.MaxNestingDepth = MaxNestingDepth + 1 },
			wantErr: "parser.maxNestingDepth",
		},
		{
			name:   "known highlight style",
			mutate: func(c *Config) { c.Parser.Highlight = "monokai" },
		},
		{
			name:    "unknown highlight style",
			mutate:  func(c *Config) { c.Parser.Highlight = "no-such-style" },
			wantErr: "parser.highlight",
		},
		{
			name:   "absolute base url",
			mutate: func(c *Config) { c.Parser.BaseURL = "https://docs.example.org/" },
		},
		{
			name:    "relative base url",
			mutate:  func(c *Config) { c.Parser.BaseURL = "/docs/" },
			wantErr: "parser.baseURL",
		},
		{
			name:    "javascript base url",
			mutate:  func(c *Config) { c.Parser.BaseURL = "javascript:alert(1)" },
			wantErr: "parser.baseURL",
		},
		{
			name:    "unknown output format",
			mutate:  func(c *Config) { c.Output.Format = "toml" },
			wantErr: "output.format",
		},
		{
			name:    "negative workers",
			mutate:  func(c *Config) { c.Batch.Workers = -1 },
			wantErr: "batch.workers",
		},
		{
			name:    "too many workers",
			mutate:  func(c *Config) { c.Batch.Workers = MaxWorkers + 1 },
			wantErr: "batch.workers",
		},
		{
			name:    "negative read timeout",
			mutate:  func(c *Config) { c.Server.ReadTimeout = -time.Second },
			wantErr: "server.readTimeout",
		},
		{
			name:    "negative body limit",
			mutate:  func(c *Config) { c.Server.MaxBodyBytes = -1 },
			wantErr: "server.maxBodyBytes",
		},
		{
			name:    "addr too long",
			mutate:  func(c *Config) { c.Server.Addr = strings.Repeat("a", MaxAddrLength+1) },
			wantErr: "server.addr",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "verbose" },
			wantErr: "log.level",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: "log.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error mentioning %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("empty name returns ErrEmptyConfigName", func(t *testing.T) {
		_, err := LoadConfig("")
		if !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("valid file path loads config over defaults", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "test.yaml")
		content := `parser:
  highlight: "github"
  sanitize: true
server:
  addr: ":9090"
  readTimeout: 5s
log:
  level: debug
  format: json
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		cfg, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Parser.Highlight != "github" || !cfg.Parser.Sanitize {
			t.Errorf("Parser = %+v, want github highlighting and sanitize", cfg.Parser)
		}
		if cfg.Server.Addr != ":9090" {
			t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, ":9090")
		}
		if cfg.Server.ReadTimeout != 5*time.Second {
			t.Errorf("Server.ReadTimeout = %s, want 5s", cfg.Server.ReadTimeout)
		}
		if cfg.Server.WriteTimeout != DefaultWriteTimeout {
			t.Errorf("Server.WriteTimeout = %s, want default %s", cfg.Server.WriteTimeout, DefaultWriteTimeout)
		}
		if cfg.Parser.MaxContentSize != DefaultMaxContentSize {
			t.Errorf("Parser.MaxContentSize = %d, want default", cfg.Parser.MaxContentSize)
		}
		if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
			t.Errorf("Log = %+v, want debug/json", cfg.Log)
		}
	})

	t.Run("nonexistent file path returns ErrConfigNotFound", func(t *testing.T) {
		_, err := LoadConfig("/nonexistent/path/config.yaml")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("invalid YAML returns ErrConfigParse", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "invalid.yaml")
		if err := os.WriteFile(configPath, []byte("parser: [unclosed"), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("unknown field returns ErrConfigParse in strict mode", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "strict.yaml")
		if err := os.WriteFile(configPath, []byte("parser:\n  maxDepth: 3\n"), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("invalid values fail validation", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "bad.yaml")
		if err := os.WriteFile(configPath, []byte("batch:\n  workers: 1000\n"), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrFieldRange) {
			t.Errorf("error = %v, want ErrFieldRange", err)
		}
	})

	t.Run("config name resolves in current directory", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)
		if err := os.WriteFile(filepath.Join(dir, "site.yml"), []byte("output:\n  format: yaml\n"), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		cfg, err := LoadConfig("site")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Output.Format != "yaml" {
			t.Errorf("Output.Format = %q, want yaml", cfg.Output.Format)
		}
	})

	t.Run("missing config name lists tried paths", func(t *testing.T) {
		t.Chdir(t.TempDir())
		_, err := LoadConfig("absent")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("error = %v, want ErrConfigNotFound", err)
		}
		if !strings.Contains(err.Error(), "absent.yaml") || !strings.Contains(err.Error(), "absent.yml") {
			t.Errorf("error should list tried paths, got %q", err)
		}
	})
}

func TestParseBaseURL(t *testing.T) {
	u, err := ParseBaseURL("https://docs.example.org/guide/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Host != "docs.example.org" {
		t.Errorf("Host = %q", u.Host)
	}
	for _, bad := range []string{"docs/", "ftp://example.org/", "https://", "%zz"} {
		if _, err := ParseBaseURL(bad); err == nil {
			t.Errorf("ParseBaseURL(%q) = nil error", bad)
		}
	}
}
