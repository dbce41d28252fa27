package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateFetch(); err != nil {
		return err
	}
	if err := c.validateConvert(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateFetch() error {
	if c.Fetch.BaseURL != "" {
		parsed, err := url.Parse(c.Fetch.BaseURL)
		if err != nil {
			return fmt.Errorf("fetch.base_url: %w", err)
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return errors.New("fetch.base_url must use http or https")
		}
	}
	if strings.TrimSpace(c.Fetch.UserAgent) == "" {
		return errors.New("fetch.user_agent must be set")
	}
	if c.Fetch.MaxRetries > 10 {
		return errors.New("fetch.max_retries must be 10 or fewer")
	}
	return nil
}

func (c *Config) validateConvert() error {
	if c.Convert.JPEGQuality < 1 || c.Convert.JPEGQuality > 100 {
		return errors.New("convert.jpeg_quality must be between 1 and 100")
	}
	return nil
}
