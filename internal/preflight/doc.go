// Package preflight provides readiness checks for the icon theme setup and
// the filesystem paths and addresses guess-icon depends on.
//
// The CLI "guess-icon check" command runs RunAll and renders the results.
// Each check is gated by its config option; unset options are skipped.
package preflight
