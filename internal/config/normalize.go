package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	overrides, err := parseEnv()
	if err != nil {
		return err
	}
	if err := c.normalizeIconTheme(overrides); err != nil {
		return err
	}
	if err := c.normalizeLogging(overrides); err != nil {
		return err
	}
	c.Metrics.Listen = strings.TrimSpace(c.Metrics.Listen)
	return nil
}

func (c *Config) normalizeIconTheme(overrides environment) error {
	c.IconTheme.Name = strings.TrimSpace(c.IconTheme.Name)
	if c.IconTheme.Name == "" {
		c.IconTheme.Name = overrides.IconTheme
	}

	c.IconTheme.Size = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(c.IconTheme.Size)), "_", "-")
	if c.IconTheme.Size == "" {
		c.IconTheme.Size = defaultIconSize
	}

	dirs := make([]string, 0, len(c.IconTheme.ExtraDirs))
	seen := make(map[string]struct{}, len(c.IconTheme.ExtraDirs))
	for i, dir := range c.IconTheme.ExtraDirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		expanded, err := expandPath(strings.TrimSpace(dir))
		if err != nil {
			return fmt.Errorf("icon_theme.extra_dirs[%d]: %w", i, err)
		}
		if _, dup := seen[expanded]; dup {
			continue
		}
		seen[expanded] = struct{}{}
		dirs = append(dirs, expanded)
	}
	c.IconTheme.ExtraDirs = dirs
	return nil
}

func (c *Config) normalizeLogging(overrides environment) error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	if overrides.LogLevel != "" {
		c.Logging.Level = overrides.LogLevel
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	var err error
	if c.Logging.Dir, err = expandPath(strings.TrimSpace(c.Logging.Dir)); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	return nil
}
