package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateDownloads(); err != nil {
		return err
	}
	if err := c.validateHumble(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	if strings.TrimSpace(c.Paths.DatabasePath) == "" {
		return errors.New("paths.database_path must be set")
	}
	return nil
}

func (c *Config) validateDownloads() error {
	if c.Downloads.MaxConcurrent < 1 {
		return errors.New("downloads.max_concurrent must be at least 1")
	}
	if c.Downloads.MaxConcurrent > MaxConcurrentLimit {
		return fmt.Errorf("downloads.max_concurrent must not exceed %d", MaxConcurrentLimit)
	}
	if c.Downloads.NotificationSecs < 1 {
		return errors.New("downloads.notification_seconds must be at least 1")
	}
	if c.Downloads.ItemRemovalSecs < 0 {
		return errors.New("downloads.item_removal_seconds cannot be negative")
	}
	if c.Downloads.AcquireTimeoutSecs < 0 {
		return errors.New("downloads.acquire_timeout_seconds cannot be negative")
	}
	return nil
}

func (c *Config) validateHumble() error {
	if c.Humble.Binary == "" {
		return errors.New("humble.binary must be set")
	}
	if c.Humble.ListTimeoutSecs <= 0 {
		return errors.New("humble.list_timeout_seconds must be positive")
	}
	if c.Humble.DownloadTimeoutSecs < 0 {
		return errors.New("humble.download_timeout_seconds cannot be negative (0 disables the timeout)")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
