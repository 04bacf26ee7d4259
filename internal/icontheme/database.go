package icontheme

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"guessicon/internal/logging"
)

var iconExtensions = []string{".png", ".svg", ".xpm"}

var startWatcher = newThemeWatcher

// Options configures a Database. Zero values select the desktop defaults.
type Options struct {
	// ThemeName is the user theme. Empty detects the GTK setting and falls
	// back to hicolor.
	ThemeName string
	// ExtraDirs are searched before BaseDirs.
	ExtraDirs []string
	// BaseDirs replaces DefaultBaseDirs when non-empty.
	BaseDirs []string
	// PixmapDirs replaces DefaultPixmapDirs when non-nil.
	PixmapDirs []string
	// ConfigDirs replaces DefaultConfigDirs for theme detection when non-empty.
	ConfigDirs []string
	// Scale is the icon scale factor; values below 1 mean 1.
	Scale int
	// Watch reloads the theme chain whenever a base or theme root directory
	// changes.
	Watch  bool
	Logger *slog.Logger
}

type theme struct {
	name        string
	displayName string
	inherits    []string
	dirs        []directory
	roots       []string
}

// ThemeInfo describes one theme of the resolved inheritance chain.
type ThemeInfo struct {
	Name        string
	DisplayName string
	Roots       []string
	Directories int
}

// Database answers icon lookups against a freedesktop icon theme and its
// parents. It is safe for concurrent use.
type Database struct {
	logger     *slog.Logger
	themeName  string
	baseDirs   []string
	pixmapDirs []string
	scale      int

	mu    sync.RWMutex
	chain []*theme

	listMu   sync.Mutex
	listings map[string]dirListing

	watcher *themeWatcher
}

// New resolves the theme chain described by opts and, when opts.Watch is set,
// starts watching the theme directories.
func New(opts Options) (*Database, error) {
	baseDirs := opts.BaseDirs
	if len(baseDirs) == 0 {
		baseDirs = DefaultBaseDirs()
	}
	pixmapDirs := opts.PixmapDirs
	if pixmapDirs == nil {
		pixmapDirs = DefaultPixmapDirs()
	}
	configDirs := opts.ConfigDirs
	if len(configDirs) == 0 {
		configDirs = DefaultConfigDirs()
	}
	scale := opts.Scale
	if scale < 1 {
		scale = 1
	}

	themeName := strings.TrimSpace(opts.ThemeName)
	if themeName == "" {
		themeName = DetectThemeName(configDirs)
	}
	if themeName == "" {
		themeName = hicolorTheme
	}

	db := &Database{
		logger:     logging.NewComponentLogger(opts.Logger, "icontheme"),
		themeName:  themeName,
		baseDirs:   dedupeDirs(append(append([]string{}, opts.ExtraDirs...), baseDirs...)),
		pixmapDirs: dedupeDirs(pixmapDirs),
		scale:      scale,
		listings:   make(map[string]dirListing),
	}
	db.chain = db.loadChain()

	if opts.Watch {
		w, err := startWatcher(db)
		if err != nil {
			return nil, fmt.Errorf("watch icon theme directories: %w", err)
		}
		db.watcher = w
	}

	db.logger.Debug("icon theme database initialized",
		logging.String("theme", db.themeName),
		logging.Int("chain_length", len(db.chain)),
		logging.Bool("watch", db.watcher != nil),
	)
	return db, nil
}

// ThemeName returns the user theme the chain starts from.
func (db *Database) ThemeName() string {
	return db.themeName
}

// BaseDirs returns the base directories in lookup order.
func (db *Database) BaseDirs() []string {
	return append([]string(nil), db.baseDirs...)
}

// Themes describes the resolved inheritance chain in lookup order.
func (db *Database) Themes() []ThemeInfo {
	db.mu.RLock()
	defer db.mu.RUnlock()
	out := make([]ThemeInfo, 0, len(db.chain))
	for _, th := range db.chain {
		out = append(out, ThemeInfo{
			Name:        th.name,
			DisplayName: th.displayName,
			Roots:       append([]string(nil), th.roots...),
			Directories: len(th.dirs),
		})
	}
	return out
}

// Lookup returns the file providing an icon called name at the given nominal
// size. When no directory matches the size exactly the closest one in the
// same theme wins; when no theme provides the icon the pixmap directories are
// searched.
func (db *Database) Lookup(name string, size Size) (string, bool) {
	if name == "" || strings.ContainsAny(name, "/\x00") {
		return "", false
	}
	px := size.Pixels()

	db.mu.RLock()
	chain := db.chain
	db.mu.RUnlock()

	for _, th := range chain {
		if path, ok := db.lookupInTheme(th, name, px); ok {
			return path, true
		}
	}
	return db.lookupFallback(name)
}

// IconExists reports whether Lookup finds an icon.
func (db *Database) IconExists(name string, size Size) bool {
	_, ok := db.Lookup(name, size)
	return ok
}

// Refresh drops the directory index and reloads the theme chain.
func (db *Database) Refresh() {
	chain := db.loadChain()
	db.mu.Lock()
	db.chain = chain
	db.mu.Unlock()

	db.listMu.Lock()
	clear(db.listings)
	db.listMu.Unlock()

	db.logger.Debug("icon theme index refreshed", logging.String("theme", db.themeName))
}

// Close stops the directory watcher, if any.
func (db *Database) Close() error {
	if db == nil || db.watcher == nil {
		return nil
	}
	return db.watcher.Close()
}

func (db *Database) lookupInTheme(th *theme, name string, px int) (string, bool) {
	for _, dir := range th.dirs {
		if !dir.matchesSize(px, db.scale) {
			continue
		}
		for _, root := range th.roots {
			if path, ok := db.iconFile(filepath.Join(root, dir.path), name); ok {
				return path, true
			}
		}
	}

	best := ""
	minDistance := math.MaxInt
	for _, dir := range th.dirs {
		distance := dir.sizeDistance(px, db.scale)
		if distance >= minDistance {
			continue
		}
		for _, root := range th.roots {
			if path, ok := db.iconFile(filepath.Join(root, dir.path), name); ok {
				best = path
				minDistance = distance
				break
			}
		}
	}
	return best, best != ""
}

func (db *Database) lookupFallback(name string) (string, bool) {
	for _, dir := range append(append([]string{}, db.baseDirs...), db.pixmapDirs...) {
		if path, ok := db.iconFile(dir, name); ok {
			return path, true
		}
	}
	return "", false
}

func (db *Database) iconFile(dir, name string) (string, bool) {
	listing := db.listing(dir)
	for _, ext := range iconExtensions {
		file := name + ext
		if _, ok := listing[file]; !ok {
			continue
		}
		path := filepath.Join(dir, file)
		if unix.Access(path, unix.R_OK) != nil {
			continue
		}
		return path, true
	}
	return "", false
}

// dirListing is the file names of one directory as of modTime.
type dirListing struct {
	exists  bool
	modTime time.Time
	names   map[string]struct{}
}

// listing returns the file names of dir. A cached listing is reused only
// while the directory's mtime is unchanged, so a file added to or removed
// from dir is seen by the next lookup.
func (db *Database) listing(dir string) map[string]struct{} {
	var modTime time.Time
	info, err := os.Stat(dir)
	exists := err == nil && info.IsDir()
	if exists {
		modTime = info.ModTime()
	}

	db.listMu.Lock()
	defer db.listMu.Unlock()
	if cached, ok := db.listings[dir]; ok && cached.exists == exists && cached.modTime.Equal(modTime) {
		return cached.names
	}
	names := map[string]struct{}{}
	if exists {
		entries, err := os.ReadDir(dir)
		if err == nil {
			for _, entry := range entries {
				if entry.Type().IsDir() {
					continue
				}
				names[entry.Name()] = struct{}{}
			}
		}
	}
	db.listings[dir] = dirListing{exists: exists, modTime: modTime, names: names}
	return names
}

// loadChain resolves the user theme and its parents depth first, with
// hicolor always last.
func (db *Database) loadChain() []*theme {
	var chain []*theme
	seen := map[string]struct{}{hicolorTheme: {}}
	var visit func(name string)
	visit = func(name string) {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		th, ok := db.loadTheme(name)
		if !ok {
			logging.WarnWithContext(db.logger, "icon theme not found", "icon_theme_missing",
				logging.String("theme", name),
				logging.String(logging.FieldErrorHint, "install the theme or set icon_theme.name"),
				logging.String(logging.FieldImpact, "icons from this theme are not considered"),
			)
			return
		}
		chain = append(chain, th)
		for _, parent := range th.inherits {
			visit(parent)
		}
	}
	visit(db.themeName)
	if th, ok := db.loadTheme(hicolorTheme); ok {
		chain = append(chain, th)
	}
	return chain
}

func (db *Database) loadTheme(name string) (*theme, bool) {
	var th *theme
	var roots []string
	for _, base := range db.baseDirs {
		root := filepath.Join(base, name)
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			continue
		}
		roots = append(roots, root)
		if th != nil {
			continue
		}
		idx, err := readIndexFile(filepath.Join(root, "index.theme"))
		if err != nil {
			if !os.IsNotExist(err) {
				db.logger.Debug("skipping unreadable theme index",
					logging.String("path", root),
					logging.Error(err),
				)
			}
			continue
		}
		th = &theme{
			name:        name,
			displayName: idx.name,
			inherits:    idx.inherits,
			dirs:        idx.directories,
		}
	}
	if th == nil {
		return nil, false
	}
	th.roots = roots
	return th, true
}
