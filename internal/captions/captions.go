package captions

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"pilotcast/internal/fileutil"
	"pilotcast/internal/language"
	"pilotcast/internal/script"
)

// Cue is one timed caption.
type Cue struct {
	FromSec float64
	ToSec   float64
	Text    string
}

// Track holds the cues for a single language.
type Track struct {
	Language string
	Cues     []Cue
}

// SupportedLanguages returns the caption languages in render order.
func SupportedLanguages() []string {
	return language.Supported()
}

// Render builds one track per language. Languages default to the full
// supported set when none are given.
func Render(spec *script.Spec, languages []string) []Track {
	if len(languages) == 0 {
		languages = SupportedLanguages()
	}
	tracks := make([]Track, 0, len(languages))
	for _, lang := range languages {
		tracks = append(tracks, renderTrack(spec.Lines, lang))
	}
	return tracks
}

func renderTrack(lines []script.Line, lang string) Track {
	track := Track{Language: lang, Cues: make([]Cue, 0, len(lines))}
	for _, line := range lines {
		text := cueText(line, lang)
		if text == "" {
			continue
		}
		track.Cues = append(track.Cues, Cue{FromSec: line.FromSec, ToSec: line.ToSec, Text: text})
	}
	return track
}

func cueText(line script.Line, lang string) string {
	source := strings.TrimSpace(line.Text)
	if lang == language.Base {
		return source
	}
	if translated, ok := line.Translation(lang); ok {
		if trimmed := strings.TrimSpace(translated); trimmed != "" {
			return trimmed
		}
	}
	return source
}

// WebVTT serializes the track. The result always ends with exactly one
// newline.
func (t Track) WebVTT() string {
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")
	for _, cue := range t.Cues {
		b.WriteString(FormatTimestamp(cue.FromSec))
		b.WriteString(" --> ")
		b.WriteString(FormatTimestamp(cue.ToSec))
		b.WriteByte('\n')
		b.WriteString(cue.Text)
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), " \t\r\n") + "\n"
}

// FileName is the track's file name inside the captions directory.
func (t Track) FileName() string {
	return t.Language + ".vtt"
}

// FormatTimestamp renders seconds as HH:MM:SS.mmm. Negative input clamps to
// zero, milliseconds round half away from zero, and hours are not wrapped.
func FormatTimestamp(sec float64) string {
	if sec < 0 || math.IsNaN(sec) {
		sec = 0
	}
	ms := int64(math.Round(sec * 1000))
	hh := ms / 3_600_000
	mm := (ms % 3_600_000) / 60_000
	ss := (ms % 60_000) / 1000
	mmm := ms % 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", hh, mm, ss, mmm)
}

// WriteTracks writes every track into dir as <lang>.vtt and returns the
// written paths in track order.
func WriteTracks(dir string, tracks []Track) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create captions directory: %w", err)
	}
	paths := make([]string, 0, len(tracks))
	for _, track := range tracks {
		path := filepath.Join(dir, track.FileName())
		if err := fileutil.WriteFileAtomic(path, []byte(track.WebVTT()), 0o644); err != nil {
			return paths, fmt.Errorf("write %s captions: %w", track.Language, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
