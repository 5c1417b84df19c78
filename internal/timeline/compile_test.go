package timeline_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pilotcast/internal/script"
	"pilotcast/internal/timeline"
)

func floatPtr(v float64) *float64 { return &v }

func baseSpec() *script.Spec {
	return &script.Spec{
		Cast: []script.CastMember{
			{ID: "host", DisplayName: "Host", Color: "#ff0000"},
			{ID: "friend1"},
		},
		Lines: []script.Line{
			{Speaker: "host", Text: "one", FromSec: 5, ToSec: 7},
			{Speaker: "friend1", Text: "two", FromSec: 0, ToSec: 2},
			{Speaker: "host", Text: "three", FromSec: 5, ToSec: 6},
		},
		StageEvents: []script.StageEvent{
			script.Gesture{AtSec: 5, Target: "host"},
			script.Laugh{AtSec: 1},
			script.Laugh{AtSec: 9, Intensity: floatPtr(0.9)},
		},
	}
}

func TestEventsSortedWithStableTies(t *testing.T) {
	events := timeline.Events(baseSpec())
	require.Len(t, events, 6)

	for i := 1; i < len(events); i++ {
		assert.LessOrEqual(t, events[i-1].StartSec(), events[i].StartSec())
	}

	// 0 line(two), 1 laugh, 5 line(one), 5 line(three), 5 gesture, 9 laugh
	assert.Equal(t, timeline.LineEvent{FromSec: 0, ToSec: 2, Speaker: "friend1", Text: "two"}, events[0])
	assert.Equal(t, timeline.LaughEvent{AtSec: 1, Intensity: timeline.DefaultLaughIntensity}, events[1])
	assert.Equal(t, "one", events[2].(timeline.LineEvent).Text)
	assert.Equal(t, "three", events[3].(timeline.LineEvent).Text)
	assert.Equal(t, timeline.GestureEvent{AtSec: 5, Target: "host", Kind: "nod"}, events[4])
	assert.Equal(t, 0.9, events[5].(timeline.LaughEvent).Intensity)
}

func TestCompileDefaults(t *testing.T) {
	spec := baseSpec()
	out := timeline.Compile(spec)

	assert.Equal(t, "pilot-v1", out.Version)
	require.Len(t, out.Characters, 2)
	assert.Equal(t, timeline.Character{ID: "host", DisplayName: "Host", Color: "#ff0000"}, out.Characters[0])
	assert.Equal(t, timeline.Character{ID: "friend1", DisplayName: "Friend1", Color: "#ffffff"}, out.Characters[1])
	assert.Equal(t, []timeline.Scene{{ID: "stage", FromSec: 0, ToSec: 1320, Camera: "wide"}}, out.Scenes)

	// input left untouched
	assert.Equal(t, "two", spec.Lines[1].Text)
	assert.Equal(t, "", spec.Cast[1].Color)
}

func TestContainerEnd(t *testing.T) {
	tests := []struct {
		name string
		spec *script.Spec
		want float64
	}{
		{"floor", baseSpec(), 1320},
		{"long line", &script.Spec{Lines: []script.Line{{FromSec: 1400, ToSec: 1500}}}, 1501},
		{"intro", &script.Spec{Lines: []script.Line{{FromSec: 0, ToSec: 1}}, IntroEndSec: 2000}, 2001},
		{"scene", &script.Spec{Lines: []script.Line{{FromSec: 0, ToSec: 1}}, Scenes: []script.Scene{{FromSec: 0, ToSec: 1600}}}, 1601},
		{"invalid scene ignored", &script.Spec{Lines: []script.Line{{FromSec: 0, ToSec: 1}}, Scenes: []script.Scene{{FromSec: 3000, ToSec: 2000}}}, 1320},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, timeline.ContainerEnd(tt.spec))
		})
	}
}

func assertContiguous(t *testing.T, scenes []timeline.Scene, end float64) {
	t.Helper()
	require.NotEmpty(t, scenes)
	assert.Equal(t, 0.0, scenes[0].FromSec)
	for i, s := range scenes {
		assert.Greater(t, s.ToSec, s.FromSec, "scene %d is empty", i)
		if i > 0 {
			assert.Equal(t, scenes[i-1].ToSec, s.FromSec, "scene %d does not abut its predecessor", i)
		}
	}
	assert.Equal(t, end, scenes[len(scenes)-1].ToSec)
}

func TestCoverage(t *testing.T) {
	tests := []struct {
		name   string
		scenes []script.Scene
		want   []timeline.Scene
	}{
		{
			name:   "none",
			scenes: nil,
			want:   []timeline.Scene{{ID: "stage", FromSec: 0, ToSec: 100, Camera: "wide"}},
		},
		{
			name:   "all invalid",
			scenes: []script.Scene{{ID: "a", FromSec: 5, ToSec: 5}, {ID: "b", FromSec: 9, ToSec: 3}},
			want:   []timeline.Scene{{ID: "stage", FromSec: 0, ToSec: 100, Camera: "wide"}},
		},
		{
			name:   "late start gets default prefix and extended tail",
			scenes: []script.Scene{{ID: "desk", FromSec: 10, ToSec: 20, Camera: "close"}},
			want: []timeline.Scene{
				{ID: "stage", FromSec: 0, ToSec: 10, Camera: "wide"},
				{ID: "desk", FromSec: 10, ToSec: 100, Camera: "close"},
			},
		},
		{
			name: "unsorted input",
			scenes: []script.Scene{
				{ID: "b", FromSec: 30, ToSec: 60},
				{ID: "a", FromSec: 0, ToSec: 30},
			},
			want: []timeline.Scene{
				{ID: "a", FromSec: 0, ToSec: 30, Camera: "wide"},
				{ID: "b", FromSec: 30, ToSec: 100, Camera: "wide"},
			},
		},
		{
			name: "gap extends earlier scene",
			scenes: []script.Scene{
				{ID: "a", FromSec: 0, ToSec: 10},
				{ID: "b", FromSec: 15, ToSec: 40},
			},
			want: []timeline.Scene{
				{ID: "a", FromSec: 0, ToSec: 15, Camera: "wide"},
				{ID: "b", FromSec: 15, ToSec: 100, Camera: "wide"},
			},
		},
		{
			name: "overlap clamps later scene and swallowed scene dropped",
			scenes: []script.Scene{
				{ID: "a", FromSec: 0, ToSec: 20},
				{ID: "inner", FromSec: 5, ToSec: 15},
				{ID: "b", FromSec: 10, ToSec: 40},
			},
			want: []timeline.Scene{
				{ID: "a", FromSec: 0, ToSec: 20, Camera: "wide"},
				{ID: "b", FromSec: 20, ToSec: 100, Camera: "wide"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := timeline.Coverage(tt.scenes, 100)
			assert.Equal(t, tt.want, got)
			assertContiguous(t, got, 100)
		})
	}
}

func TestCompileCoverageAlwaysContiguous(t *testing.T) {
	spec := baseSpec()
	spec.Scenes = []script.Scene{
		{ID: "b", FromSec: 600, ToSec: 1500},
		{ID: "a", FromSec: 30, ToSec: 700},
		{ID: "bad", FromSec: 50, ToSec: 10},
	}
	out := timeline.Compile(spec)
	end := timeline.ContainerEnd(spec)
	assert.Equal(t, 1501.0, end)
	assertContiguous(t, out.Scenes, end)
}

func TestWriteEncodesTaggedEvents(t *testing.T) {
	spec := baseSpec()
	spec.ID = "pilot-v9"
	path := filepath.Join(t.TempDir(), "show", "script.json")
	require.NoError(t, timeline.Compile(spec).Write(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, byte('\n'), data[len(data)-1])

	var doc struct {
		Version string           `json:"version"`
		Events  []map[string]any `json:"events"`
		Scenes  []map[string]any `json:"scenes"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "pilot-v9", doc.Version)
	require.Len(t, doc.Events, 6)
	assert.Equal(t, "line", doc.Events[0]["type"])
	assert.Equal(t, 2.0, doc.Events[0]["toSec"])
	assert.Equal(t, "laugh", doc.Events[1]["type"])
	assert.Equal(t, "gesture", doc.Events[4]["type"])
	assert.Equal(t, "nod", doc.Events[4]["kind"])
	assert.Equal(t, "wide", doc.Scenes[0]["camera"])
}
