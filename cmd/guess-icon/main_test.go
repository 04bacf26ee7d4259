package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"guessicon/internal/icontheme"
	"guessicon/internal/testsupport"
)

func TestLookupCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"lookup", "guessicontestplayer"}, env.configPath)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	want := filepath.Join(env.iconsDir, "TestTheme", "16x16", "apps", "guessicontestplayer.png")
	if strings.TrimSpace(out) != want {
		t.Fatalf("unexpected path %q, want %q", out, want)
	}

	// Only a 48px icon exists; menu size falls back to the closest directory.
	out, _, err = runCLI(t, []string{"lookup", "guessicontestrecorder"}, env.configPath)
	if err != nil {
		t.Fatalf("lookup closest size: %v", err)
	}
	requireContains(t, out, "48x48")

	out, _, err = runCLI(t, []string{"lookup", "--size", "dialog", "guessicontestrecorder"}, env.configPath)
	if err != nil {
		t.Fatalf("lookup dialog: %v", err)
	}
	requireContains(t, out, "48x48")
}

func TestLookupCommandMissingIcon(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"lookup", "guessicon-no-such-icon"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for missing icon")
	}
	requireContains(t, err.Error(), "not found in theme TestTheme")

	_, _, err = runCLI(t, []string{"lookup", "--size", "huge", "guessicontestplayer"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for unknown size")
	}
}

func TestGuessCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"guess", "application.name=GuessIconTestPlayer", "media.role=music"}, env.configPath)
	if err != nil {
		t.Fatalf("guess: %v", err)
	}
	want := "application.name=GuessIconTestPlayer\nmedia.role=music\napplication.icon_name=guessicontestplayer\n"
	if out != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", out, want)
	}

	out, _, err = runCLI(t, []string{"guess", "application.name=Unknown App"}, env.configPath)
	if err != nil {
		t.Fatalf("guess unknown: %v", err)
	}
	if out != "application.name=Unknown App\n" {
		t.Fatalf("unexpected output for unknown app: %q", out)
	}

	if _, _, err := runCLI(t, []string{"guess", "not-an-assignment"}, env.configPath); err == nil {
		t.Fatal("expected error for malformed assignment")
	}
}

func TestFilterCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	input := strings.Join([]string{
		`{"index":1,"kind":"playback","properties":{"application.name":"GuessIconTestPlayer","media.role":"music"}}`,
		`{"index":2,"kind":"capture","properties":{"application.name":"GuessIconTestPlayer","application.icon_name":"custom"}}`,
		`{"index":3,"kind":"capture","properties":{"application.name":"Nobody Knows"}}`,
	}, "\n") + "\n"

	out, _, err := runCLIWithInput(t, []string{"filter"}, env.configPath, strings.NewReader(input))
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	want := strings.Join([]string{
		`{"index":1,"kind":"playback","properties":{"application.name":"GuessIconTestPlayer","media.role":"music","application.icon_name":"guessicontestplayer"}}`,
		`{"index":2,"kind":"capture","properties":{"application.name":"GuessIconTestPlayer","application.icon_name":"custom"}}`,
		`{"index":3,"kind":"capture","properties":{"application.name":"Nobody Knows"}}`,
	}, "\n") + "\n"
	if out != want {
		t.Fatalf("unexpected filter output:\n%s\nwant:\n%s", out, want)
	}
	if got := icontheme.Default().ThemeName(); got != "TestTheme" {
		t.Fatalf("process-wide theme = %q, want TestTheme", got)
	}
}

func TestOpenDatabaseTwiceInOneProcess(t *testing.T) {
	env := setupCLITestEnv(t)
	t.Cleanup(icontheme.ResetDefaultForTests())

	configFlag, logLevelFlag := env.configPath, "error"
	ctx := newCommandContext(&configFlag, &logLevelFlag)
	db, _, err := ctx.openDatabase(false)
	if err != nil {
		t.Fatalf("openDatabase: %v", err)
	}
	if db != icontheme.Default() {
		t.Fatal("expected the process-wide database")
	}
	if _, _, err := ctx.openDatabase(false); err == nil {
		t.Fatal("expected second configuration to be refused")
	}
}

func TestFilterCommandWithMetrics(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithMetricsListen("127.0.0.1:0"))

	input := `{"index":1,"kind":"playback","properties":{"application.name":"GuessIconTestPlayer"}}` + "\n"
	out, _, err := runCLIWithInput(t, []string{"filter"}, env.configPath, strings.NewReader(input))
	if err != nil {
		t.Fatalf("filter with metrics: %v", err)
	}
	requireContains(t, out, `"application.icon_name":"guessicontestplayer"`)
}

func TestFilterCommandRejectsMalformedInput(t *testing.T) {
	env := setupCLITestEnv(t)

	input := `{"index":1,"kind":"playback","properties":{}}` + "\nnot json\n"
	out, _, err := runCLIWithInput(t, []string{"filter"}, env.configPath, strings.NewReader(input))
	if err == nil {
		t.Fatal("expected error for malformed event")
	}
	requireContains(t, err.Error(), "line 2")
	requireContains(t, out, `"index":1`)
}

func TestThemesCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"themes"}, env.configPath)
	if err != nil {
		t.Fatalf("themes: %v", err)
	}
	requireContains(t, out, "TestTheme")
	requireContains(t, out, "Test Theme")
	requireContains(t, out, "Base directories:")
	requireContains(t, out, env.iconsDir)
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "Icon theme: TestTheme at menu size")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	out, _, err = runCLI(t, []string{"config", "validate"}, target)
	if err != nil {
		t.Fatalf("validate sample: %v", err)
	}
	requireContains(t, out, "Configuration valid")
}

func TestInvalidLogLevelFlag(t *testing.T) {
	env := setupCLITestEnv(t)
	cmd := newRootCommand()
	cmd.SetArgs([]string{"--config", env.configPath, "--log-level", "loud", "config", "validate"})
	cmd.SetOut(new(strings.Builder))
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for unknown log level")
	}
}

func TestRenderTable(t *testing.T) {
	out := renderTable([]string{"Property", "Value"}, [][]string{{"application.name", "Firefox"}, {"only-key"}}, nil)
	requireContains(t, out, "application.name")
	requireContains(t, out, "Firefox")
	requireContains(t, out, "only-key")
	if renderTable(nil, nil, nil) != "" {
		t.Fatal("expected empty output without headers")
	}
}

func TestCheckCommand(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithLogDir())

	// TestTheme inherits hicolor; whether hicolor is installed depends on the
	// host, so only the theme chain row is asserted.
	out, _, _ := runCLI(t, []string{"check"}, env.configPath)
	requireContains(t, out, "Icon theme")
	requireContains(t, out, "TestTheme")
	requireContains(t, out, "Extra icon directory")
	requireContains(t, out, "Log directory")

	missing := setupCLITestEnv(t, testsupport.WithThemeName("NoSuchTheme"))
	out, _, err := runCLI(t, []string{"check"}, missing.configPath)
	if err == nil {
		t.Fatal("expected check to fail for missing theme")
	}
	requireContains(t, out, "FAIL")
}
