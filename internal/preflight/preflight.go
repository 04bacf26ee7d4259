package preflight

import (
	"context"

	"guessicon/internal/config"
	"guessicon/internal/icontheme"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the checks that apply to cfg against the opened theme
// database. Checks for unset options are skipped.
func RunAll(ctx context.Context, cfg *config.Config, db *icontheme.Database) []Result {
	if cfg == nil || db == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckThemeChain(db))
	results = append(results, CheckHicolor(db))

	for _, dir := range cfg.IconTheme.ExtraDirs {
		results = append(results, CheckDirectoryAccess("Extra icon directory", dir, false))
	}

	if cfg.Logging.Dir != "" {
		results = append(results, CheckLogDirectory(cfg.Logging.Dir))
	}

	if cfg.Metrics.Listen != "" {
		results = append(results, CheckListenAddress(ctx, cfg.Metrics.Listen))
	}

	return results
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}
