package timeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"pilotcast/internal/fileutil"
	"pilotcast/internal/script"
)

// Compile builds the stage timeline for spec. It never mutates spec.
func Compile(spec *script.Spec) StageScript {
	end := ContainerEnd(spec)
	version := strings.TrimSpace(spec.ID)
	if version == "" {
		version = DefaultVersion
	}
	return StageScript{
		Version:     version,
		IntroEndSec: spec.IntroEndSec,
		Characters:  characters(spec.Cast),
		Scenes:      Coverage(spec.Scenes, end),
		Events:      Events(spec),
	}
}

// Events merges lines and stage events into one sequence sorted by start
// time. Lines precede stage events in encounter order, and the sort is
// stable, so a line and a gesture at the same instant keep that order.
func Events(spec *script.Spec) []Event {
	events := make([]Event, 0, len(spec.Lines)+len(spec.StageEvents))
	for _, line := range spec.Lines {
		events = append(events, LineEvent{
			FromSec: line.FromSec,
			ToSec:   line.ToSec,
			Speaker: line.Speaker,
			Text:    line.Text,
		})
	}
	for _, stage := range spec.StageEvents {
		switch ev := stage.(type) {
		case script.Gesture:
			kind := strings.TrimSpace(ev.Kind)
			if kind == "" {
				kind = DefaultGestureKind
			}
			events = append(events, GestureEvent{AtSec: ev.AtSec, Target: ev.Target, Kind: kind})
		case script.Laugh:
			intensity := DefaultLaughIntensity
			if ev.Intensity != nil {
				intensity = *ev.Intensity
			}
			events = append(events, LaughEvent{AtSec: ev.AtSec, Intensity: intensity})
		default:
			panic(fmt.Sprintf("timeline: unhandled stage event %T", stage))
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartSec() < events[j].StartSec()
	})
	return events
}

// ContainerEnd is the stage length: the canonical floor or one second past
// the latest authored content, whichever is greater.
func ContainerEnd(spec *script.Spec) float64 {
	end := MinContainerSec
	for _, line := range spec.Lines {
		end = math.Max(end, line.ToSec+1)
	}
	end = math.Max(end, spec.IntroEndSec+1)
	for _, scene := range spec.Scenes {
		if scene.Valid() {
			end = math.Max(end, scene.ToSec+1)
		}
	}
	return end
}

func characters(cast []script.CastMember) []Character {
	titleCaser := cases.Title(language.English)
	out := make([]Character, 0, len(cast))
	for _, member := range cast {
		name := strings.TrimSpace(member.DisplayName)
		if name == "" {
			name = titleCaser.String(member.ID)
		}
		color := strings.TrimSpace(member.Color)
		if color == "" {
			color = DefaultColor
		}
		out = append(out, Character{ID: member.ID, DisplayName: name, Color: color})
	}
	return out
}

// Encode renders the timeline as indented JSON with a trailing newline.
func (s StageScript) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes the timeline to path atomically.
func (s StageScript) Write(path string) error {
	data, err := s.Encode()
	if err != nil {
		return fmt.Errorf("encode stage script: %w", err)
	}
	return fileutil.WriteFileAtomic(path, data, 0o644)
}
