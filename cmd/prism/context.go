package main

import (
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"prism/internal/config"
	"prism/internal/logging"
	"prism/internal/progress"
	"prism/internal/remote"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
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
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// progressBackend picks terminal rendering when stderr is a TTY and falls
// back to sampled log lines otherwise.
func (c *commandContext) progressBackend() progress.Backend {
	logger, err := c.ensureLogger()
	if err != nil {
		logger = logging.NewNop()
	}
	return progress.DetectWithLogger(os.Stderr, logger)
}

// newFetcher assembles a remote fetcher from the loaded configuration.
func (c *commandContext) newFetcher() (*remote.Fetcher, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, nil, err
	}
	index, err := remote.OpenIndex(cfg.Paths.CacheDir)
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		_ = index.Close()
		return nil, nil, err
	}

	fetcher, err := remote.NewFetcher(remote.Options{
		CacheDir:   cfg.Paths.CacheDir,
		BaseURL:    cfg.Fetch.BaseURL,
		UserAgent:  cfg.Fetch.UserAgent,
		Timeout:    time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second,
		MaxRetries: cfg.Fetch.MaxRetries,
	}, index, logger, c.progressBackend())
	if err != nil {
		_ = index.Close()
		return nil, nil, err
	}
	return fetcher, func() { _ = index.Close() }, nil
}
