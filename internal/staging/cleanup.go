package staging

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"pilotcast/internal/logging"
)

const runPrefix = "run-"

// CleanStaleResult contains the outcome of a stale directory cleanup operation.
type CleanStaleResult struct {
	Removed []string
	Errors  []CleanupError
}

// CleanupError pairs a directory path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// CleanStale removes run scratch directories older than maxAge. Scratch
// directories are normally removed when a build ends; this reclaims the ones
// left behind by killed processes. Entries that are not run directories are
// left alone.
func CleanStale(ctx context.Context, stagingDir string, maxAge time.Duration, logger *slog.Logger) CleanStaleResult {
	result := CleanStaleResult{}

	runs, err := ListRuns(stagingDir)
	if err != nil {
		result.Errors = append(result.Errors, CleanupError{Path: stagingDir, Error: err})
		return result
	}

	cutoff := time.Now().Add(-maxAge)
	for _, run := range runs {
		if ctx.Err() != nil {
			break
		}
		if !run.ModTime.Before(cutoff) {
			continue
		}
		if err := os.RemoveAll(run.Path); err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: run.Path, Error: err})
			if logger != nil {
				logger.Warn("failed to remove stale staging directory",
					logging.String("path", run.Path),
					logging.Error(err),
					logging.String(logging.FieldEventType, "staging_cleanup_failed"),
					logging.String(logging.FieldErrorHint, "check paths.staging_dir permissions"),
					logging.String(logging.FieldImpact, "disk space not reclaimed"),
				)
			}
			continue
		}
		result.Removed = append(result.Removed, run.Path)
		if logger != nil {
			logger.Info("removed stale staging directory",
				logging.String("path", run.Path),
				logging.String(logging.FieldRunID, run.ID),
				logging.Duration("age", time.Since(run.ModTime)),
				logging.String(logging.FieldEventType, "staging_cleanup"),
			)
		}
	}

	return result
}

// NewRunDir creates the scratch directory for one build run.
func NewRunDir(stagingDir, runID string) (string, error) {
	stagingDir = strings.TrimSpace(stagingDir)
	runID = strings.TrimSpace(runID)
	if stagingDir == "" || runID == "" {
		return "", fmt.Errorf("staging dir and run id are required")
	}
	dir := filepath.Join(stagingDir, runPrefix+runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create run dir: %w", err)
	}
	return dir, nil
}

// Run describes a scratch directory left under the staging root.
type Run struct {
	ID        string
	Path      string
	ModTime   time.Time
	SizeBytes int64
}

// ListRuns returns the run scratch directories under stagingDir, oldest
// first. A missing staging root has no runs.
func ListRuns(stagingDir string) ([]Run, error) {
	stagingDir = strings.TrimSpace(stagingDir)
	if stagingDir == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(stagingDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var runs []Run
	for _, entry := range entries {
		id, ok := strings.CutPrefix(entry.Name(), runPrefix)
		if !entry.IsDir() || !ok || id == "" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(stagingDir, entry.Name())
		runs = append(runs, Run{
			ID:        id,
			Path:      path,
			ModTime:   info.ModTime(),
			SizeBytes: dirSize(path),
		})
	}
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].ModTime.Before(runs[j].ModTime)
	})
	return runs, nil
}

// dirSize sums regular file sizes below path, skipping unreadable entries.
func dirSize(path string) int64 {
	var size int64
	_ = filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			size += info.Size()
		}
		return nil
	})
	return size
}
