package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range []string{
		"PROMPT_ASSISTANT_LOG_LEVEL",
		"PROMPT_ASSISTANT_STORE_PATH",
		"PROMPT_ASSISTANT_WORKDIR",
		"PROMPT_ASSISTANT_HTTP_TIMEOUT",
		"PROMPT_ASSISTANT_CLI_TIMEOUT",
		"PROMPT_ASSISTANT_CACHE_TTL",
	} {
		t.Setenv(env, "")
	}
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("log level = %q", cfg.LogLevel)
	}
	if cfg.HTTPTimeout != DefaultHTTPTimeout || cfg.CLITimeout != DefaultCLITimeout {
		t.Errorf("timeouts = %s / %s", cfg.HTTPTimeout, cfg.CLITimeout)
	}
	if cfg.CacheTTL != DefaultCacheTTL {
		t.Errorf("cache ttl = %s", cfg.CacheTTL)
	}
	if cfg.StorePath == "" {
		t.Error("store path is empty")
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
logLevel: debug
storePath: /tmp/records.json
workingDirectory: /tmp
httpTimeout: 30s
cliTimeout: 90s
cacheTTL: 1h
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %q", cfg.LogLevel)
	}
	if cfg.StorePath != "/tmp/records.json" {
		t.Errorf("store path = %q", cfg.StorePath)
	}
	if cfg.WorkingDirectory != "/tmp" {
		t.Errorf("workdir = %q", cfg.WorkingDirectory)
	}
	if cfg.HTTPTimeout != 30*time.Second || cfg.CLITimeout != 90*time.Second {
		t.Errorf("timeouts = %s / %s", cfg.HTTPTimeout, cfg.CLITimeout)
	}
	if cfg.CacheTTL != time.Hour {
		t.Errorf("cache ttl = %s", cfg.CacheTTL)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "httpTimeout: 30s\nlogLevel: debug\n")
	t.Setenv("PROMPT_ASSISTANT_HTTP_TIMEOUT", "5s")
	t.Setenv("PROMPT_ASSISTANT_LOG_LEVEL", "error")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Errorf("http timeout = %s, want the env override", cfg.HTTPTimeout)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("log level = %q, want the env override", cfg.LogLevel)
	}
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	cases := []struct {
		name    string
		content string
	}{
		{"bad duration", "httpTimeout: soon\n"},
		{"negative duration", "cacheTTL: -1h\n"},
		{"bad level", "logLevel: loud\n"},
		{"not yaml", ":\t{{{\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tc.content)); err == nil {
				t.Error("expected an error")
			}
		})
	}

	t.Run("missing explicit file", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"ERROR":   slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Errorf("ParseLevel(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected an error for an unknown level")
	}
}
