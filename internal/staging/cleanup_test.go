package staging

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pilotcast/internal/logging"
)

func TestCleanStaleInvalidPaths(t *testing.T) {
	for _, dir := range []string{"", "   ", "/nonexistent/path/12345"} {
		result := CleanStale(context.Background(), dir, time.Hour, logging.NewNop())
		if len(result.Removed) != 0 || len(result.Errors) != 0 {
			t.Errorf("expected empty result for path %q", dir)
		}
	}
}

func TestCleanStaleRemovesOldDirectories(t *testing.T) {
	tmpDir := t.TempDir()

	// Create old directory
	oldDir := filepath.Join(tmpDir, "run-old")
	if err := os.Mkdir(oldDir, 0o755); err != nil {
		t.Fatalf("create old dir: %v", err)
	}
	// Set modification time to 2 hours ago
	oldTime := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(oldDir, oldTime, oldTime); err != nil {
		t.Fatalf("set old time: %v", err)
	}

	// Create recent directory
	recentDir := filepath.Join(tmpDir, "run-recent")
	if err := os.Mkdir(recentDir, 0o755); err != nil {
		t.Fatalf("create recent dir: %v", err)
	}

	result := CleanStale(context.Background(), tmpDir, time.Hour, logging.NewNop())

	if len(result.Removed) != 1 {
		t.Fatalf("expected 1 removed, got %d", len(result.Removed))
	}
	if result.Removed[0] != oldDir {
		t.Errorf("expected %s to be removed, got %s", oldDir, result.Removed[0])
	}

	// Old dir should be gone
	if _, err := os.Stat(oldDir); !os.IsNotExist(err) {
		t.Error("old directory should have been removed")
	}

	// Recent dir should still exist
	if _, err := os.Stat(recentDir); err != nil {
		t.Error("recent directory should still exist")
	}
}

func TestCleanStaleIgnoresFiles(t *testing.T) {
	tmpDir := t.TempDir()

	// Create an old file (should be ignored)
	oldFile := filepath.Join(tmpDir, "old-file.txt")
	if err := os.WriteFile(oldFile, []byte("test"), 0o644); err != nil {
		t.Fatalf("create file: %v", err)
	}
	oldTime := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(oldFile, oldTime, oldTime); err != nil {
		t.Fatalf("set old time: %v", err)
	}

	result := CleanStale(context.Background(), tmpDir, time.Hour, logging.NewNop())

	if len(result.Removed) != 0 {
		t.Errorf("expected no removals for files, got %d", len(result.Removed))
	}

	// File should still exist
	if _, err := os.Stat(oldFile); err != nil {
		t.Error("file should not have been removed")
	}
}

func TestNewRunDir(t *testing.T) {
	root := t.TempDir()
	dir, err := NewRunDir(root, "abc")
	if err != nil {
		t.Fatalf("NewRunDir: %v", err)
	}
	if dir != filepath.Join(root, "run-abc") {
		t.Fatalf("unexpected dir %s", dir)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Fatalf("expected run dir to exist: %v", err)
	}
	if _, err := NewRunDir(root, " "); err == nil {
		t.Fatal("expected error for empty run id")
	}
}

func TestListRunsInvalidPaths(t *testing.T) {
	for _, path := range []string{"", "/nonexistent/path/12345"} {
		runs, err := ListRuns(path)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", path, err)
		}
		if runs != nil {
			t.Errorf("expected nil for path %q, got %v", path, runs)
		}
	}
}

func TestListRuns(t *testing.T) {
	tmpDir := t.TempDir()

	older := filepath.Join(tmpDir, "run-1")
	if err := os.Mkdir(older, 0o755); err != nil {
		t.Fatalf("create run-1: %v", err)
	}
	if err := os.WriteFile(filepath.Join(older, "0000_silence.wav"), []byte("12345"), 0o644); err != nil {
		t.Fatalf("create inner file: %v", err)
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(older, past, past); err != nil {
		t.Fatalf("set old time: %v", err)
	}
	if err := os.Mkdir(filepath.Join(tmpDir, "run-2"), 0o755); err != nil {
		t.Fatalf("create run-2: %v", err)
	}
	// Neither of these is a run directory.
	if err := os.Mkdir(filepath.Join(tmpDir, "keep"), 0o755); err != nil {
		t.Fatalf("create keep: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "pilot.mp3.lock"), nil, 0o644); err != nil {
		t.Fatalf("create lock: %v", err)
	}

	runs, err := ListRuns(tmpDir)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != "1" || runs[0].Path != older || runs[0].SizeBytes != 5 {
		t.Errorf("unexpected oldest run: %+v", runs[0])
	}
	if runs[1].ID != "2" || runs[1].ModTime.IsZero() {
		t.Errorf("unexpected newest run: %+v", runs[1])
	}
}

func TestCleanStaleOnlyTouchesRunDirectories(t *testing.T) {
	tmpDir := t.TempDir()
	other := filepath.Join(tmpDir, "keep")
	if err := os.Mkdir(other, 0o755); err != nil {
		t.Fatalf("create dir: %v", err)
	}
	oldTime := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(other, oldTime, oldTime); err != nil {
		t.Fatalf("set old time: %v", err)
	}

	result := CleanStale(context.Background(), tmpDir, time.Hour, logging.NewNop())
	if len(result.Removed) != 0 || len(result.Errors) != 0 {
		t.Fatalf("unexpected cleanup result: %+v", result)
	}
	if _, err := os.Stat(other); err != nil {
		t.Fatal("non-run directory should not have been removed")
	}
}
