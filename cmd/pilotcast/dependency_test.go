package main

import (
	"strings"
	"testing"

	"pilotcast/internal/deps"
)

func TestDependencyLines(t *testing.T) {
	statuses := []deps.Status{
		{Name: "FFmpeg", Available: true, Command: "ffmpeg"},
		{Name: "FFprobe", Available: false, Detail: `binary "ffprobe" not found`},
		{Name: "Extra", Optional: true},
	}
	lines := dependencyLines(statuses, false)
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %v", len(lines), lines)
	}
	if !strings.Contains(lines[0], "[OK] Ready (command: ffmpeg)") {
		t.Fatalf("unexpected ready line %q", lines[0])
	}
	if !strings.Contains(lines[1], `[ERROR] binary "ffprobe" not found`) {
		t.Fatalf("unexpected error line %q", lines[1])
	}
	if !strings.Contains(lines[2], "[WARN] not available") {
		t.Fatalf("unexpected optional line %q", lines[2])
	}
	if !strings.Contains(lines[3], "FFprobe (audio builds will fail)") {
		t.Fatalf("unexpected summary line %q", lines[3])
	}
}
