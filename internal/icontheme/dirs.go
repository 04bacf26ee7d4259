package icontheme

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

const (
	hicolorTheme     = "hicolor"
	gtkIconThemeKey  = "gtk-icon-theme-name"
	gtkSettingsGroup = "Settings"
)

// DefaultBaseDirs returns the icon theme base directories in lookup order:
// $HOME/.icons, $XDG_DATA_HOME/icons and each $XDG_DATA_DIRS entry's icons
// directory.
func DefaultBaseDirs() []string {
	dirs := []string{filepath.Join(xdg.Home, ".icons"), filepath.Join(xdg.DataHome, "icons")}
	for _, dir := range xdg.DataDirs {
		dirs = append(dirs, filepath.Join(dir, "icons"))
	}
	return dedupeDirs(dirs)
}

// DefaultPixmapDirs returns the directories searched for unthemed icons after
// every theme in the chain has been tried.
func DefaultPixmapDirs() []string {
	return []string{"/usr/share/pixmaps"}
}

// DetectThemeName reads the GTK icon theme setting from the first
// settings.ini found under the given config directories, preferring GTK 4.
// It returns "" when no setting is found.
func DetectThemeName(configDirs []string) string {
	for _, version := range []string{"gtk-4.0", "gtk-3.0"} {
		for _, dir := range configDirs {
			if name := readGTKSetting(filepath.Join(dir, version, "settings.ini")); name != "" {
				return name
			}
		}
	}
	return ""
}

// DefaultConfigDirs returns $XDG_CONFIG_HOME followed by $XDG_CONFIG_DIRS.
func DefaultConfigDirs() []string {
	return dedupeDirs(append([]string{xdg.ConfigHome}, xdg.ConfigDirs...))
}

func readGTKSetting(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()
	parsed, err := parseDesktopFile(f)
	if err != nil {
		return ""
	}
	return strings.Trim(parsed[gtkSettingsGroup][gtkIconThemeKey], `"`)
}

func dedupeDirs(dirs []string) []string {
	seen := make(map[string]struct{}, len(dirs))
	out := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			continue
		}
		dir = filepath.Clean(dir)
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		out = append(out, dir)
	}
	return out
}
