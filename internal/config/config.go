// Package config loads the doxify command configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2/styles"

	"github.com/doxify/go-doxify/internal/fileutil"
	"github.com/doxify/go-doxify/internal/logging"
	"github.com/doxify/go-doxify/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrFieldRange      = errors.New("field out of range")
	ErrInvalidValue    = errors.New("invalid field value")
	ErrUnknownStyle    = fmt.Errorf("%w: unknown highlight style", ErrInvalidValue)
)

// Limits enforced by Validate.
const (
	MaxContentSize  = 1 << 30 // 1 GiB upper bound for parser.maxContentSize
	MaxNestingDepth = 10000
	MaxWorkers      = 64
	MaxURLLength    = 2048
	MaxAddrLength   = 256
	MaxStyleLength  = 64
)

// Defaults applied by DefaultConfig.
const (
	DefaultMaxContentSize  = 10 << 20
	DefaultMaxNestingDepth = 256
	DefaultAddr            = "127.0.0.1:8080"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultMaxBodyBytes    = 12 << 20
	DefaultOutputFormat    = "json"
)

// Config holds all configuration for the doxify command.
type Config struct {
	Parser ParserConfig `yaml:"parser"`
	Output OutputConfig `yaml:"output"`
	Batch  BatchConfig  `yaml:"batch"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

// ParserConfig mirrors the library options.
type ParserConfig struct {
	MaxContentSize  int    `yaml:"maxContentSize"`  // bytes
	MaxNestingDepth int    `yaml:"maxNestingDepth"` // deeper content collapses to text
	Highlight       string `yaml:"highlight"`       // chroma style name (empty = no highlighting)
	Sanitize        bool   `yaml:"sanitize"`        // filter rendered HTML with the default policy
	BaseURL         string `yaml:"baseURL"`         // absolute URL for relative links (empty = keep)
}

// OutputConfig defines where and how results are written.
type OutputConfig struct {
	Format string `yaml:"format"` // "json" or "yaml" for parse results
	Dir    string `yaml:"dir"`    // empty = stdout
}

// BatchConfig defines directory processing options.
type BatchConfig struct {
	Workers int `yaml:"workers"` // 0 = GOMAXPROCS
}

// ServerConfig defines the HTTP wrapper.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	MaxBodyBytes int64         `yaml:"maxBodyBytes"`
}

// LogConfig defines structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console or json
}

// Validate checks ranges and lengths.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateRange("parser.maxContentSize", c.Parser.MaxContentSize, 1, MaxContentSize); err != nil {
		return err
	}
	if err := validateRange("parser.maxNestingDepth", c.Parser.MaxNestingDepth, 1, MaxNestingDepth); err != nil {
		return err
	}
	if err := validateFieldLength("parser.highlight", c.Parser.Highlight, MaxStyleLength); err != nil {
		return err
	}
	if c.Parser.Highlight != "" {
		if _, ok := styles.Registry[c.Parser.Highlight]; !ok {
			return fmt.Errorf("%w: parser.highlight %q", ErrUnknownStyle, c.Parser.Highlight)
		}
	}
	if err := validateFieldLength("parser.baseURL", c.Parser.BaseURL, MaxURLLength); err != nil {
		return err
	}
	if c.Parser.BaseURL != "" {
		if _, err := ParseBaseURL(c.Parser.BaseURL); err != nil {
			return err
		}
	}

	switch c.Output.Format {
	case "", "json", "yaml":
	default:
		return fmt.Errorf("%w: output.format %q (must be json or yaml)", ErrInvalidValue, c.Output.Format)
	}

	if err := validateRange("batch.workers", c.Batch.Workers, 0, MaxWorkers); err != nil {
		return err
	}

	if err := validateFieldLength("server.addr", c.Server.Addr, MaxAddrLength); err != nil {
		return err
	}
	if c.Server.ReadTimeout < 0 {
		return fmt.Errorf("%w: server.readTimeout must not be negative, got %s", ErrFieldRange, c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout < 0 {
		return fmt.Errorf("%w: server.writeTimeout must not be negative, got %s", ErrFieldRange, c.Server.WriteTimeout)
	}
	if c.Server.MaxBodyBytes < 0 {
		return fmt.Errorf("%w: server.maxBodyBytes must not be negative, got %d", ErrFieldRange, c.Server.MaxBodyBytes)
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if err := logging.ValidateFormat(c.Log.Format); err != nil {
		return fmt.Errorf("log.format: %w", err)
	}

	return nil
}

// ParseBaseURL parses an absolute http(s) base URL.
func ParseBaseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: parser.baseURL: %w", ErrInvalidValue, err)
	}
	if !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: parser.baseURL must be an absolute http or https URL, got %q", ErrInvalidValue, raw)
	}
	return u, nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// validateRange checks that value lies in [lo, hi].
func validateRange(fieldName string, value, lo, hi int) error {
	if value < lo || value > hi {
		return fmt.Errorf("%w: %s must be between %d and %d, got %d", ErrFieldRange, fieldName, lo, hi, value)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Parser: ParserConfig{
			MaxContentSize:  DefaultMaxContentSize,
			MaxNestingDepth: DefaultMaxNestingDepth,
		},
		Output: OutputConfig{Format: DefaultOutputFormat},
		Server: ServerConfig{
			Addr:         DefaultAddr,
			ReadTimeout:  DefaultReadTimeout,
			WriteTimeout: DefaultWriteTimeout,
			MaxBodyBytes: DefaultMaxBodyBytes,
		},
		Log: LogConfig{Level: logging.LevelInfo, Format: logging.FormatConsole},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields absent from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// UserConfigPath returns where the named config is looked up in the user
// config directory, or "" when that directory is unknown.
func UserConfigPath(name string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "doxify", name+".yaml")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/doxify/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "doxify", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
