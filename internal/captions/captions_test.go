package captions_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pilotcast/internal/captions"
	"pilotcast/internal/script"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "00:00:00.000"},
		{-3, "00:00:00.000"},
		{1.5, "00:00:01.500"},
		{59.9996, "00:01:00.000"},
		{61.0004, "00:01:01.000"},
		{0.0005, "00:00:00.001"},
		{3725.25, "01:02:05.250"},
		{90000, "25:00:00.000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, captions.FormatTimestamp(tt.in), "FormatTimestamp(%v)", tt.in)
	}
}

func sampleSpec() *script.Spec {
	return &script.Spec{
		Lines: []script.Line{
			{Speaker: "host", Text: "  Hello there. ", FromSec: 0, ToSec: 2, T: map[string]string{"es": " Hola. ", "fr": "   "}},
			{Speaker: "ops", Text: "", FromSec: 2, ToSec: 3, T: map[string]string{"es": "Solo español"}},
			{Speaker: "ops", Text: "Bye", FromSec: 4, ToSec: 5.25},
		},
	}
}

func TestRenderFallsBackToSourceText(t *testing.T) {
	tracks := captions.Render(sampleSpec(), []string{"en", "es", "fr"})
	require.Len(t, tracks, 3)

	en := tracks[0]
	assert.Equal(t, "en", en.Language)
	assert.Equal(t, []captions.Cue{
		{FromSec: 0, ToSec: 2, Text: "Hello there."},
		{FromSec: 4, ToSec: 5.25, Text: "Bye"},
	}, en.Cues)

	es := tracks[1]
	require.Len(t, es.Cues, 3)
	assert.Equal(t, "Hola.", es.Cues[0].Text)
	assert.Equal(t, "Solo español", es.Cues[1].Text)
	assert.Equal(t, "Bye", es.Cues[2].Text)

	fr := tracks[2]
	require.Len(t, fr.Cues, 2)
	assert.Equal(t, "Hello there.", fr.Cues[0].Text)
}

func TestRenderDefaultsToSupportedSet(t *testing.T) {
	tracks := captions.Render(sampleSpec(), nil)
	require.Len(t, tracks, len(captions.SupportedLanguages()))
	assert.Equal(t, "en", tracks[0].Language)
	assert.Equal(t, "ar", tracks[len(tracks)-1].Language)
}

func TestWebVTT(t *testing.T) {
	track := captions.Render(sampleSpec(), []string{"en"})[0]
	want := "WEBVTT\n\n" +
		"00:00:00.000 --> 00:00:02.000\nHello there.\n\n" +
		"00:00:04.000 --> 00:00:05.250\nBye\n"
	assert.Equal(t, want, track.WebVTT())

	empty := captions.Track{Language: "ja"}
	assert.Equal(t, "WEBVTT\n", empty.WebVTT())
}

func TestWriteTracks(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "captions")
	tracks := captions.Render(sampleSpec(), []string{"en", "es"})

	paths, err := captions.WriteTracks(dir, tracks)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "en.vtt"), filepath.Join(dir, "es.vtt")}, paths)

	data, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Equal(t, tracks[1].WebVTT(), string(data))
}
