package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"humblesync/internal/config"
)

func TestLoadDefaultsExpandPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantOutput := filepath.Join(tempHome, "Downloads", "HumbleBundle")
	if cfg.Paths.OutputDir != wantOutput {
		t.Fatalf("unexpected output dir: got %q want %q", cfg.Paths.OutputDir, wantOutput)
	}
	wantDB := filepath.Join(tempHome, ".humblebundle", "downloads.db")
	if cfg.Paths.DatabasePath != wantDB {
		t.Fatalf("unexpected database path: %q", cfg.Paths.DatabasePath)
	}
	if cfg.Downloads.MaxConcurrent != 3 {
		t.Fatalf("unexpected max concurrent: %d", cfg.Downloads.MaxConcurrent)
	}
	if cfg.Downloads.NotificationSecs != 5 {
		t.Fatalf("unexpected notification seconds: %d", cfg.Downloads.NotificationSecs)
	}
	if cfg.Downloads.ItemRemovalSecs != 10 {
		t.Fatalf("unexpected removal seconds: %d", cfg.Downloads.ItemRemovalSecs)
	}
	if cfg.Humble.Binary != "humble-cli" {
		t.Fatalf("unexpected binary: %q", cfg.Humble.Binary)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %q %q", cfg.Logging.Format, cfg.Logging.Level)
	}
}

func TestLoadReadsTOMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.Join([]string{
		"[downloads]",
		"max_concurrent = 5",
		"notification_seconds = 2",
		"",
		"[humble]",
		`binary = "humble-cli-dev"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	if resolved != path {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Downloads.MaxConcurrent != 5 {
		t.Fatalf("unexpected max concurrent: %d", cfg.Downloads.MaxConcurrent)
	}
	if cfg.Downloads.NotificationSecs != 2 {
		t.Fatalf("unexpected notification seconds: %d", cfg.Downloads.NotificationSecs)
	}
	if cfg.Humble.Binary != "humble-cli-dev" {
		t.Fatalf("unexpected binary: %q", cfg.Humble.Binary)
	}
	// Unset sections keep defaults.
	if cfg.Downloads.ItemRemovalSecs != 10 {
		t.Fatalf("expected default removal delay, got %d", cfg.Downloads.ItemRemovalSecs)
	}
}

func TestValidateRejectsOutOfRangeValues(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*config.Config)
		wantSub string
	}{
		{"zero concurrency", func(c *config.Config) { c.Downloads.MaxConcurrent = 0 }, "max_concurrent"},
		{"excess concurrency", func(c *config.Config) { c.Downloads.MaxConcurrent = 11 }, "max_concurrent"},
		{"zero notification", func(c *config.Config) { c.Downloads.NotificationSecs = 0 }, "notification_seconds"},
		{"negative removal", func(c *config.Config) { c.Downloads.ItemRemovalSecs = -1 }, "item_removal_seconds"},
		{"empty binary", func(c *config.Config) { c.Humble.Binary = "" }, "humble.binary"},
		{"zero list timeout", func(c *config.Config) { c.Humble.ListTimeoutSecs = 0 }, "list_timeout_seconds"},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "yaml" }, "logging.format"},
		{"bad log level", func(c *config.Config) { c.Logging.Level = "loud" }, "logging.level"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Fatalf("error %q does not mention %q", err, tc.wantSub)
			}
		})
	}
}

func TestCreateSampleWritesParseableConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load of sample failed: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Downloads.MaxConcurrent != 3 {
		t.Fatalf("sample should carry defaults, got max_concurrent=%d", cfg.Downloads.MaxConcurrent)
	}
}
