// Package config loads, normalizes, and validates guess-icon configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours the GUESS_ICON_THEME and GUESS_ICON_LOG_LEVEL
// environment variables. Unknown keys are rejected so typos surface at load
// time instead of silently falling back to defaults.
package config
