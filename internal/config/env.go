package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// environment holds the variables that may adjust a loaded file.
type environment struct {
	IconTheme string `env:"GUESS_ICON_THEME"`
	LogLevel  string `env:"GUESS_ICON_LOG_LEVEL"`
}

func parseEnv() (environment, error) {
	var e environment
	if err := env.Parse(&e); err != nil {
		return environment{}, fmt.Errorf("parse env: %w", err)
	}
	e.IconTheme = strings.TrimSpace(e.IconTheme)
	e.LogLevel = strings.TrimSpace(e.LogLevel)
	return e, nil
}
