package preflight

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"guessicon/internal/icontheme"
)

// CheckThemeChain verifies that the requested user theme is installed and
// lists the chain lookups will walk.
func CheckThemeChain(db *icontheme.Database) Result {
	const name = "Icon theme"

	themes := db.Themes()
	if len(themes) == 0 {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: no icon themes found in %d base directories)", db.ThemeName(), len(db.BaseDirs()))}
	}
	names := make([]string, 0, len(themes))
	for _, th := range themes {
		names = append(names, th.Name)
	}
	if themes[0].Name != db.ThemeName() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not installed; searching %s)", db.ThemeName(), strings.Join(names, " > "))}
	}
	return Result{Name: name, Passed: true, Detail: strings.Join(names, " > ")}
}

// CheckHicolor verifies that the hicolor fallback theme is installed. Most
// applications install their icons there.
func CheckHicolor(db *icontheme.Database) Result {
	const name = "Fallback theme"

	for _, th := range db.Themes() {
		if th.Name == "hicolor" {
			return Result{Name: name, Passed: true, Detail: fmt.Sprintf("hicolor (%d directories)", th.Directories)}
		}
	}
	return Result{Name: name, Detail: "hicolor (error: not installed)"}
}

// CheckDirectoryAccess verifies that the directory exists and is readable,
// plus writable when writable is set.
func CheckDirectoryAccess(name, path string, writable bool) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	mode, label := uint32(unix.R_OK|unix.X_OK), "read ok"
	if writable {
		mode, label = unix.R_OK|unix.W_OK|unix.X_OK, "read/write ok"
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, label)}
}

// CheckLogDirectory accepts a missing log directory, since the logger
// creates it, but rejects one that exists and cannot be written.
func CheckLogDirectory(path string) Result {
	const name = "Log directory"

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (created on first run)", path)}
	}
	return CheckDirectoryAccess(name, path, true)
}

// CheckListenAddress verifies that the metrics address can be bound.
func CheckListenAddress(ctx context.Context, addr string) Result {
	const name = "Metrics listener"

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", addr, err)}
	}
	_ = ln.Close()
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (available)", addr)}
}
