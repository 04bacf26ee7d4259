package testsupport

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
)

// ThemeDir declares one directory of a fake icon theme.
type ThemeDir struct {
	Path string
	Size int
	// Type is Fixed, Scalable or Threshold; empty leaves it to the default.
	Type string
}

// AppsDir is a Fixed apps directory of the given size, e.g. "16x16/apps".
func AppsDir(size int) ThemeDir {
	return ThemeDir{Path: fmt.Sprintf("%dx%d/apps", size, size), Size: size, Type: "Fixed"}
}

// WriteTheme creates base/name/index.theme declaring dirs.
func WriteTheme(t testing.TB, base, name string, inherits []string, dirs ...ThemeDir) {
	t.Helper()
	var b strings.Builder
	fmt.Fprintf(&b, "[Icon Theme]\nName=%s\nComment=Test theme\n", name)
	if len(inherits) > 0 {
		fmt.Fprintf(&b, "Inherits=%s\n", strings.Join(inherits, ","))
	}
	paths := make([]string, 0, len(dirs))
	for _, d := range dirs {
		paths = append(paths, d.Path)
	}
	fmt.Fprintf(&b, "Directories=%s\n", strings.Join(paths, ","))
	for _, d := range dirs {
		fmt.Fprintf(&b, "\n[%s]\nSize=%d\n", d.Path, d.Size)
		if d.Type != "" {
			fmt.Fprintf(&b, "Type=%s\n", d.Type)
		}
	}
	WriteFile(t, filepath.Join(base, name, "index.theme"), b.String())
}

// WriteIcon drops a placeholder PNG called icon into base/theme/dir and
// returns its path.
func WriteIcon(t testing.TB, base, theme string, dir ThemeDir, icon string) string {
	t.Helper()
	path := filepath.Join(base, theme, dir.Path, icon+".png")
	WriteFile(t, path, "\x89PNG\r\n\x1a\n")
	return path
}
