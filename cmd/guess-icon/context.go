package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"guessicon/internal/config"
	"guessicon/internal/icontheme"
	"guessicon/internal/logging"
)

var logLevels = []string{"debug", "info", "warn", "error"}

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil {
			if level := strings.ToLower(strings.TrimSpace(*c.logLevelFlag)); level != "" {
				if !slices.Contains(logLevels, level) {
					c.configErr = fmt.Errorf("--log-level %q is not one of %v", level, logLevels)
					return
				}
				cfg.Logging.Level = level
			}
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
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
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// openDatabase configures the process-wide icon theme database from the
// loaded configuration and returns it. Watching is only worth it for
// long-running commands.
func (c *commandContext) openDatabase(watch bool) (*icontheme.Database, icontheme.Size, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, 0, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, 0, err
	}
	size, err := icontheme.ParseSize(cfg.IconTheme.Size)
	if err != nil {
		return nil, 0, err
	}
	configured := icontheme.Configure(icontheme.Options{
		ThemeName: cfg.IconTheme.Name,
		ExtraDirs: cfg.IconTheme.ExtraDirs,
		Watch:     watch && cfg.IconTheme.Watch,
		Logger:    logger,
	})
	if !configured {
		return nil, 0, errors.New("icon theme database already initialized")
	}
	return icontheme.Default(), size, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
