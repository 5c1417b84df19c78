// Package staging manages per-run scratch directories under paths.staging_dir.
//
// Every audio build renders its intermediate clips, silences, and concat list
// into a fresh run directory. The publish guard removes the directory when the
// build ends; CleanStale sweeps directories abandoned by interrupted runs.
package staging
