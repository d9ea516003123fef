// Package testsupport provides shared helpers for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"humblesync/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.OutputDir = filepath.Join(base, "downloads")
	cfg.Paths.DatabasePath = filepath.Join(base, "downloads.db")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithMaxConcurrent overrides the download concurrency cap.
func WithMaxConcurrent(n int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Downloads.MaxConcurrent = n
	}
}

// WithHumbleBinary overrides the humble-cli binary path.
func WithHumbleBinary(binary string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Humble.Binary = binary
	}
}
