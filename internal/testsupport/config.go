package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"guessicon/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose only icon directory is a fresh temp
// directory, with watching disabled. It applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.IconTheme.ExtraDirs = []string{filepath.Join(base, "icons")}
	cfgVal.IconTheme.Watch = false
	cfgVal.Logging.Level = "error"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithThemeName sets the user icon theme on the test config.
func WithThemeName(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.IconTheme.Name = name
	}
}

// WithMetricsListen enables the metrics endpoint on the test config.
func WithMetricsListen(addr string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Metrics.Listen = addr
	}
}

// WithLogDir points file logging at a directory under the test base dir.
func WithLogDir() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Logging.Dir = filepath.Join(b.baseDir, "logs")
	}
}

// IconsDir returns the icon base directory created for cfg.
func IconsDir(cfg *config.Config) string {
	return cfg.IconTheme.ExtraDirs[0]
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(IconsDir(cfg))
}

// WriteConfig encodes cfg as TOML at path.
func WriteConfig(t testing.TB, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}
