// Package logging assembles structured slog loggers and attribute helpers used
// across guess-icon.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and provides a no-op logger for tests and for components that are
// constructed without one. Components tag their lines through
// NewComponentLogger so the console handler can print the component name in
// the header.
package logging
