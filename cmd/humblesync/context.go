package main

import (
	"strings"
	"sync"
	"time"

	"humblesync/internal/config"
	"humblesync/internal/humblecli"
	"humblesync/internal/library"
	"humblesync/internal/tracker"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) openTracker() (*tracker.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return tracker.Open(cfg.Paths.DatabasePath)
}

func (c *commandContext) newClient() (*humblecli.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return humblecli.New(
		cfg.Humble.Binary,
		cfg.Humble.ListTimeoutSecs,
		humblecli.WithDownloadTimeout(time.Duration(cfg.Humble.DownloadTimeoutSecs)*time.Second),
	)
}

func (c *commandContext) newManager(store *tracker.Store) (*library.Manager, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	client, err := c.newClient()
	if err != nil {
		return nil, err
	}
	return library.NewManager(client, store, cfg.Paths.OutputDir)
}
