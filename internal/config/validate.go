package config

import (
	"fmt"
	"net"
	"slices"
)

// iconSizes mirrors the nominal size names accepted by the icon theme lookup.
var iconSizes = []string{"menu", "small-toolbar", "large-toolbar", "button", "dnd", "dialog"}

var (
	logFormats = []string{"console", "json"}
	logLevels  = []string{"debug", "info", "warn", "error"}
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateIconTheme(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateMetrics(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateIconTheme() error {
	if !slices.Contains(iconSizes, c.IconTheme.Size) {
		return fmt.Errorf("icon_theme.size %q is not one of %v", c.IconTheme.Size, iconSizes)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !slices.Contains(logFormats, c.Logging.Format) {
		return fmt.Errorf("logging.format %q is not one of %v", c.Logging.Format, logFormats)
	}
	if !slices.Contains(logLevels, c.Logging.Level) {
		return fmt.Errorf("logging.level %q is not one of %v", c.Logging.Level, logLevels)
	}
	return nil
}

func (c *Config) validateMetrics() error {
	if c.Metrics.Listen == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(c.Metrics.Listen); err != nil {
		return fmt.Errorf("metrics.listen %q: %w", c.Metrics.Listen, err)
	}
	return nil
}
