package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	c.Backend.URL = strings.TrimRight(strings.TrimSpace(c.Backend.URL), "/")
	if c.Backend.RequestTimeout == 0 {
		c.Backend.RequestTimeout = defaultRequestTimeout
	}

	if c.Dashboard.PollInterval == 0 {
		c.Dashboard.PollInterval = defaultPollInterval
	}
	if strings.TrimSpace(c.Dashboard.SessionDir) == "" {
		c.Dashboard.SessionDir = defaultSessionDir
	}
	var err error
	if c.Dashboard.SessionDir, err = expandPath(c.Dashboard.SessionDir); err != nil {
		return fmt.Errorf("dashboard.session_dir: %w", err)
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}
