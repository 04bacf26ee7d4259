package config

const (
	defaultConfigPath  = "~/.config/guess-icon/config.toml"
	projectConfigName  = "guess-icon.toml"
	defaultIconSize    = "menu"
	defaultIconWatch   = true
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"
	defaultMetricsPath = "/metrics"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		IconTheme: IconTheme{
			Size:  defaultIconSize,
			Watch: defaultIconWatch,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// MetricsPath is the HTTP path the Prometheus handler is mounted on.
func (c *Config) MetricsPath() string {
	return defaultMetricsPath
}
