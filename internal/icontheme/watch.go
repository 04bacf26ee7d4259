package icontheme

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"guessicon/internal/logging"
)

const refreshDebounceDelay = 500 * time.Millisecond

// themeWatcher reloads the theme chain of a Database after changes to the
// base and theme root directories, e.g. a theme being installed or its
// index.theme rewritten. Icon directories below a root revalidate their
// listings by mtime and need no watch.
type themeWatcher struct {
	db       *Database
	watcher  *fsnotify.Watcher
	debounce *debouncer

	mu      sync.Mutex
	watched map[string]struct{}
	done    chan struct{}
	closed  bool
}

func newThemeWatcher(db *Database) (*themeWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	tw := &themeWatcher{
		db:      db,
		watcher: w,
		watched: make(map[string]struct{}),
		done:    make(chan struct{}),
	}
	tw.debounce = newDebouncer(refreshDebounceDelay, tw.refresh)
	if err := tw.sync(); err != nil {
		return nil, errors.Join(err, w.Close())
	}
	go tw.loop()
	return tw, nil
}

func (tw *themeWatcher) paths() []string {
	paths := append([]string{}, tw.db.baseDirs...)
	paths = append(paths, tw.db.pixmapDirs...)
	for _, th := range tw.db.Themes() {
		paths = append(paths, th.Roots...)
	}
	return dedupeDirs(paths)
}

// sync adds watches for directories that exist and are not yet watched.
func (tw *themeWatcher) sync() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.closed {
		return nil
	}
	for _, path := range tw.paths() {
		if _, ok := tw.watched[path]; ok {
			continue
		}
		if info, err := os.Stat(path); err != nil || !info.IsDir() {
			continue
		}
		if err := tw.watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		tw.watched[path] = struct{}{}
	}
	return nil
}

func (tw *themeWatcher) refresh() {
	tw.db.Refresh()
	if err := tw.sync(); err != nil {
		logging.WarnWithContext(tw.db.logger, "icon theme watch update failed", "icon_theme_watch_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "new theme directories are not watched"),
		)
	}
}

func (tw *themeWatcher) loop() {
	for {
		select {
		case <-tw.done:
			return
		case ev, ok := <-tw.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			tw.db.logger.Debug("icon theme change detected",
				logging.String("op", ev.Op.String()),
				logging.String("path", ev.Name),
			)
			if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				tw.forget(ev.Name)
			}
			tw.debounce.Trigger()
		case err, ok := <-tw.watcher.Errors:
			if !ok {
				return
			}
			tw.db.logger.Debug("icon theme watcher error", logging.Error(err))
		}
	}
}

// forget drops a removed directory so a later sync can watch it again.
func (tw *themeWatcher) forget(path string) {
	tw.mu.Lock()
	delete(tw.watched, path)
	tw.mu.Unlock()
}

func (tw *themeWatcher) Close() error {
	tw.mu.Lock()
	if tw.closed {
		tw.mu.Unlock()
		return nil
	}
	tw.closed = true
	close(tw.done)
	tw.mu.Unlock()

	tw.debounce.Stop()
	return tw.watcher.Close()
}

type debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	fn    func()
}

func newDebouncer(delay time.Duration, fn func()) *debouncer {
	return &debouncer{delay: delay, fn: fn}
}

func (d *debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fn)
}

func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
