package script_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pilotcast/internal/script"
	"pilotcast/internal/services"
)

const sampleScript = `{
  "id": "pilot-v2",
  "intro_end_sec": 12.5,
  "cast": [
    {"id": "host", "display_name": "Host", "color": "#ff8800"},
    {"id": "ops"}
  ],
  "lines": [
    {"speaker": "host", "text": "Welcome back.", "from_sec": 0, "to_sec": 2, "t": {"es": "Bienvenidos."}},
    {"speaker": "ops", "text": "Thanks!", "from_sec": 3, "to_sec": 5}
  ],
  "stage_events": [
    {"type": "gesture", "at_sec": 1.0, "target": "host", "kind": "wave"},
    {"type": "laugh", "at_sec": 4.0},
    {"type": "laugh", "at_sec": 4.5, "intensity": 0}
  ],
  "scenes": [
    {"id": "desk", "from_sec": 0, "to_sec": 30, "camera": "close"}
  ]
}`

func TestParseDecodesAllSections(t *testing.T) {
	spec, err := script.Parse([]byte(sampleScript))
	require.NoError(t, err)

	assert.Equal(t, "pilot-v2", spec.ID)
	assert.Equal(t, 12.5, spec.IntroEndSec)
	require.Len(t, spec.Cast, 2)
	assert.Equal(t, "", spec.Cast[1].Color)
	require.Len(t, spec.Lines, 2)
	text, ok := spec.Lines[0].Translation("es")
	assert.True(t, ok)
	assert.Equal(t, "Bienvenidos.", text)
	assert.Equal(t, []string{"host", "ops"}, spec.Speakers())

	require.Len(t, spec.StageEvents, 3)
	gesture, ok := spec.StageEvents[0].(script.Gesture)
	require.True(t, ok)
	assert.Equal(t, "wave", gesture.Kind)
	assert.Equal(t, 1.0, gesture.At())

	laugh, ok := spec.StageEvents[1].(script.Laugh)
	require.True(t, ok)
	assert.Nil(t, laugh.Intensity)

	explicit, ok := spec.StageEvents[2].(script.Laugh)
	require.True(t, ok)
	require.NotNil(t, explicit.Intensity)
	assert.Equal(t, 0.0, *explicit.Intensity)

	require.Len(t, spec.Scenes, 1)
	assert.True(t, spec.Scenes[0].Valid())
}

func TestParseAcceptsByteOrderMark(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(sampleScript)...)
	spec, err := script.Parse(data)
	require.NoError(t, err)
	assert.Len(t, spec.Lines, 2)
}

func TestParseRejectsInvalidScripts(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"lines": [`},
		{"no lines", `{"id": "x", "lines": []}`},
		{"missing lines", `{"id": "x"}`},
		{"inverted line", `{"lines": [{"speaker": "a", "text": "t", "from_sec": 5, "to_sec": 4}]}`},
		{"zero length line", `{"lines": [{"speaker": "a", "text": "t", "from_sec": 5, "to_sec": 5}]}`},
		{"unknown event type", `{"lines": [{"speaker": "a", "text": "t", "from_sec": 0, "to_sec": 1}], "stage_events": [{"type": "explode", "at_sec": 1}]}`},
		{"untyped event", `{"lines": [{"speaker": "a", "text": "t", "from_sec": 0, "to_sec": 1}], "stage_events": [{"at_sec": 1}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := script.Parse([]byte(tt.body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, services.ErrValidation), "expected validation marker, got %v", err)
		})
	}
}

func TestParseReportsOffendingLine(t *testing.T) {
	body := `{"lines": [
		{"speaker": "a", "text": "ok", "from_sec": 0, "to_sec": 1},
		{"speaker": "b", "text": "bad", "from_sec": 3, "to_sec": 2}
	]}`
	_, err := script.Parse([]byte(body))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lines[1].to_sec")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pilot.script.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleScript), 0o644))

	spec, err := script.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "pilot-v2", spec.ID)

	_, err = script.Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrNotFound))
}
