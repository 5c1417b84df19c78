package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// TwoLineScript is a minimal show with a one-second gap between lines. The
// lines are authored out of chronological order.
const TwoLineScript = `{
  "id": "pilot-v1",
  "cast": [{"id": "host", "display_name": "Host"}, {"id": "ops"}],
  "lines": [
    {"speaker": "ops", "text": "Thanks!", "from_sec": 3, "to_sec": 5, "t": {"es": "Gracias."}},
    {"speaker": "host", "text": "Welcome back.", "from_sec": 0, "to_sec": 2}
  ],
  "stage_events": [{"type": "laugh", "at_sec": 4}]
}`

// WriteScript writes body to a fresh temp file and returns its path.
func WriteScript(t testing.TB, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "pilot.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write script %s: %v", path, err)
	}
	return path
}
