package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"guessicon/internal/config"
	"guessicon/internal/icontheme"
	"guessicon/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	iconsDir   string
	configPath string
}

var (
	testApps16 = testsupport.AppsDir(16)
	testApps48 = testsupport.AppsDir(48)
)

// setupCLITestEnv writes a config pointing at a private icon theme called
// TestTheme that ships one 16px and one 48px application icon.
func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, append([]testsupport.ConfigOption{testsupport.WithThemeName("TestTheme")}, opts...)...)
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("GUESS_ICON_THEME", "")
	t.Setenv("GUESS_ICON_LOG_LEVEL", "")

	iconsDir := testsupport.IconsDir(cfg)
	testsupport.WriteTheme(t, iconsDir, "TestTheme", []string{"hicolor"}, testApps16, testApps48)
	testsupport.WriteIcon(t, iconsDir, "TestTheme", testApps16, "guessicontestplayer")
	testsupport.WriteIcon(t, iconsDir, "TestTheme", testApps48, "guessicontestrecorder")

	configPath := filepath.Join(base, "config.toml")
	testsupport.WriteConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, iconsDir: iconsDir, configPath: configPath}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	return runCLIWithInput(t, args, configPath, strings.NewReader(""))
}

func runCLIWithInput(t *testing.T, args []string, configPath string, in io.Reader) (string, string, error) {
	t.Helper()
	t.Cleanup(icontheme.ResetDefaultForTests())
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetIn(in)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{"--log-level", "error"}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
