package icontheme

import (
	"sync"

	"guessicon/internal/logging"
)

var (
	defaultMu       sync.Mutex
	defaultOpts     Options
	defaultStarted  bool
	defaultDatabase = sync.OnceValue(buildDefault)
)

func buildDefault() *Database {
	defaultMu.Lock()
	opts := defaultOpts
	defaultStarted = true
	defaultMu.Unlock()

	db, err := New(opts)
	if err == nil {
		return db
	}
	logging.WarnWithContext(logging.NewComponentLogger(opts.Logger, "icontheme"),
		"icon theme watcher unavailable", "icon_theme_watch_failed",
		logging.Error(err),
		logging.String(logging.FieldImpact, "newly installed themes are seen after restart only"),
	)
	opts.Watch = false
	db, _ = New(opts)
	return db
}

// Configure sets the options used to build the process-wide database. It
// reports false, leaving the database untouched, once Default has run.
func Configure(opts Options) bool {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultStarted {
		return false
	}
	defaultOpts = opts
	return true
}

// Default returns the process-wide database, building it on first use.
// Concurrent first calls build it once.
func Default() *Database {
	defaultMu.Lock()
	get := defaultDatabase
	defaultMu.Unlock()
	return get()
}

func resetDefault() {
	defaultMu.Lock()
	started := defaultStarted
	get := defaultDatabase
	defaultOpts = Options{}
	defaultStarted = false
	defaultDatabase = sync.OnceValue(buildDefault)
	defaultMu.Unlock()

	if started {
		_ = get().Close()
	}
}
