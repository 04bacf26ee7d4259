package icontheme

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
)

func TestDefaultIsBuiltOnce(t *testing.T) {
	t.Cleanup(ResetDefaultForTests())

	base := t.TempDir()
	writeTheme(t, base, hicolorTheme, nil, "16/apps:16")
	writeFile(t, filepath.Join(base, hicolorTheme, "16", "apps", "pavucontrol.png"), "png")
	if !Configure(Options{BaseDirs: []string{base}, PixmapDirs: []string{}, ConfigDirs: []string{t.TempDir()}}) {
		t.Fatal("expected Configure to succeed before first use")
	}

	var wg sync.WaitGroup
	got := make([]*Database, 8)
	for i := range got {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i] = Default()
		}()
	}
	wg.Wait()

	for i, db := range got {
		if db == nil || db != got[0] {
			t.Fatalf("call %d returned %p, want %p", i, db, got[0])
		}
	}
	if Default() != got[0] {
		t.Fatal("expected later calls to return the same database")
	}
	if !got[0].IconExists("pavucontrol", SizeMenu) {
		t.Fatal("expected configured base directory to be used")
	}
}

func TestConfigureAfterDefaultIsRejected(t *testing.T) {
	t.Cleanup(ResetDefaultForTests())

	if !Configure(Options{BaseDirs: []string{t.TempDir()}, PixmapDirs: []string{}, ConfigDirs: []string{t.TempDir()}}) {
		t.Fatal("expected first Configure to succeed")
	}
	db := Default()
	if Configure(Options{ThemeName: "Papirus"}) {
		t.Fatal("expected Configure to report false once Default has run")
	}
	if Default() != db {
		t.Fatal("rejected Configure must not replace the database")
	}
	if db.ThemeName() != hicolorTheme {
		t.Fatalf("theme = %q, want %q", db.ThemeName(), hicolorTheme)
	}
}

func TestDefaultFallsBackWithoutWatcher(t *testing.T) {
	t.Cleanup(ResetDefaultForTests())
	previous := startWatcher
	startWatcher = func(*Database) (*themeWatcher, error) {
		return nil, errors.New("inotify limit reached")
	}
	t.Cleanup(func() { startWatcher = previous })

	base := t.TempDir()
	writeTheme(t, base, hicolorTheme, nil, "16/apps:16")
	writeFile(t, filepath.Join(base, hicolorTheme, "16", "apps", "easyeffects.png"), "png")
	Configure(Options{BaseDirs: []string{base}, PixmapDirs: []string{}, ConfigDirs: []string{t.TempDir()}, Watch: true})

	db := Default()
	if db == nil {
		t.Fatal("expected a database without watcher")
	}
	if db.watcher != nil {
		t.Fatal("expected watcher to be disabled")
	}
	if !db.IconExists("easyeffects", SizeMenu) {
		t.Fatal("expected lookups to work without watcher")
	}
}

func TestResetDefaultForTests(t *testing.T) {
	restore := ResetDefaultForTests()
	t.Cleanup(restore)

	Configure(Options{BaseDirs: []string{t.TempDir()}, PixmapDirs: []string{}, ConfigDirs: []string{t.TempDir()}})
	first := Default()
	restore()

	if !Configure(Options{BaseDirs: []string{t.TempDir()}, PixmapDirs: []string{}, ConfigDirs: []string{t.TempDir()}}) {
		t.Fatal("expected Configure to succeed after reset")
	}
	if Default() == first {
		t.Fatal("expected a new database after reset")
	}
}
