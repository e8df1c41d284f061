// Package config loads the process configuration: defaults, overridden by
// an optional YAML file, overridden by environment variables. Secrets never
// live here; credential resolution is the provider catalog's job.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultHTTPTimeout = 120 * time.Second
	DefaultCLITimeout  = 180 * time.Second
	DefaultCacheTTL    = 24 * time.Hour
	DefaultLogLevel    = "info"
)

// Config is the resolved process configuration.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// StorePath is the JSON records file for custom providers and model
	// filters.
	StorePath string

	// WorkingDirectory for CLI subprocess calls. Empty means a neutral
	// temporary directory.
	WorkingDirectory string

	// HTTPTimeout and CLITimeout are the per-call wall-clock limits.
	HTTPTimeout time.Duration
	CLITimeout  time.Duration

	// CacheTTL is the model-list staleness window.
	CacheTTL time.Duration
}

// fileConfig is the YAML document shape. Durations are strings in Go
// duration syntax ("90s", "24h").
type fileConfig struct {
	LogLevel         string `yaml:"logLevel"`
	StorePath        string `yaml:"storePath"`
	WorkingDirectory string `yaml:"workingDirectory"`
	HTTPTimeout      string `yaml:"httpTimeout"`
	CLITimeout       string `yaml:"cliTimeout"`
	CacheTTL         string `yaml:"cacheTTL"`
}

// Default returns the built-in configuration. The store file lives under
// the user config directory when resolvable.
func Default() Config {
	storePath := "prompt-assistant.json"
	if dir, err := os.UserConfigDir(); err == nil {
		storePath = filepath.Join(dir, "prompt-assistant", "records.json")
	}
	return Config{
		LogLevel:    DefaultLogLevel,
		StorePath:   storePath,
		HTTPTimeout: DefaultHTTPTimeout,
		CLITimeout:  DefaultCLITimeout,
		CacheTTL:    DefaultCacheTTL,
	}
}

// Load resolves the configuration: defaults, then the YAML file at path (a
// missing file is fine when path is empty; an explicit path must exist),
// then PROMPT_ASSISTANT_* environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
		}
		var fc fileConfig
		if err := yaml.Unmarshal(raw, &fc); err != nil {
			return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
		}
		if err := apply(&cfg, fc); err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func apply(cfg *Config, fc fileConfig) error {
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.StorePath != "" {
		cfg.StorePath = fc.StorePath
	}
	if fc.WorkingDirectory != "" {
		cfg.WorkingDirectory = fc.WorkingDirectory
	}

	for _, d := range []struct {
		raw  string
		name string
		dst  *time.Duration
	}{
		{fc.HTTPTimeout, "httpTimeout", &cfg.HTTPTimeout},
		{fc.CLITimeout, "cliTimeout", &cfg.CLITimeout},
		{fc.CacheTTL, "cacheTTL", &cfg.CacheTTL},
	} {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("%s: %w", d.name, err)
		}
		if parsed <= 0 {
			return fmt.Errorf("%s must be positive, got %s", d.name, parsed)
		}
		*d.dst = parsed
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("PROMPT_ASSISTANT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("PROMPT_ASSISTANT_STORE_PATH"); v != "" {
		cfg.StorePath = v
	}
	if v := os.Getenv("PROMPT_ASSISTANT_WORKDIR"); v != "" {
		cfg.WorkingDirectory = v
	}

	for _, d := range []struct {
		env string
		dst *time.Duration
	}{
		{"PROMPT_ASSISTANT_HTTP_TIMEOUT", &cfg.HTTPTimeout},
		{"PROMPT_ASSISTANT_CLI_TIMEOUT", &cfg.CLITimeout},
		{"PROMPT_ASSISTANT_CACHE_TTL", &cfg.CacheTTL},
	} {
		v := os.Getenv(d.env)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", d.env, err)
		}
		if parsed <= 0 {
			return fmt.Errorf("config: %s must be positive, got %s", d.env, parsed)
		}
		*d.dst = parsed
	}
	return nil
}

// ParseLevel maps a config log level onto slog.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("config: unknown log level %q", level)
	}
}
