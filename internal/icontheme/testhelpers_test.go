package icontheme

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// writeTheme creates base/name/index.theme declaring the given directories.
// Each directory spec is "path:size:type"; type may be empty.
func writeTheme(t *testing.T, base, name string, inherits []string, dirs ...string) {
	t.Helper()
	var b strings.Builder
	b.WriteString("[Icon Theme]\nName=" + name + "\n")
	if len(inherits) > 0 {
		b.WriteString("Inherits=" + strings.Join(inherits, ",") + "\n")
	}
	paths := make([]string, 0, len(dirs))
	for _, spec := range dirs {
		paths = append(paths, strings.SplitN(spec, ":", 2)[0])
	}
	b.WriteString("Directories=" + strings.Join(paths, ",") + "\n\n")
	for _, spec := range dirs {
		parts := strings.SplitN(spec, ":", 3)
		b.WriteString("[" + parts[0] + "]\nSize=" + parts[1] + "\n")
		if len(parts) == 3 && parts[2] != "" {
			b.WriteString("Type=" + parts[2] + "\n")
		}
		b.WriteString("\n")
	}
	writeFile(t, filepath.Join(base, name, "index.theme"), b.String())
}

func newTestDatabase(t *testing.T, opts Options) *Database {
	t.Helper()
	if opts.PixmapDirs == nil {
		opts.PixmapDirs = []string{}
	}
	if len(opts.ConfigDirs) == 0 {
		opts.ConfigDirs = []string{t.TempDir()}
	}
	db, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}
