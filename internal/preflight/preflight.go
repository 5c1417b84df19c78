package preflight

import (
	"context"

	"pilotcast/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the filesystem checks an audio build needs. Directories
// are expected to exist already (see config.EnsureDirectories).
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	return []Result{
		CheckDirectoryAccess("Show directory", cfg.Paths.ShowDir),
		CheckDirectoryAccess("Cache directory", cfg.Paths.CacheDir),
		CheckDirectoryAccess("Staging directory", cfg.Paths.StagingDir),
	}
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
