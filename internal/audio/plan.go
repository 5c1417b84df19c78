package audio

import "sort"

// timeResolution is the finest step the plan distinguishes (1 µs), the
// precision of the durations handed to ffmpeg. Smaller gaps are float noise.
const timeResolution = 1e-6

// SlotLine is a dialogue line positioned on the output timeline.
type SlotLine struct {
	Index   int
	Speaker string
	Text    string
	FromSec float64
	ToSec   float64
}

// PlannedSegment is one entry in the output layout. Line is the index into
// the sorted lines for speech segments and -1 for silence.
type PlannedSegment struct {
	Kind    Kind
	Line    int
	FromSec float64
	ToSec   float64
}

// Duration is the segment length in seconds.
func (p PlannedSegment) Duration() float64 {
	return p.ToSec - p.FromSec
}

// SortLines returns lines ordered by FromSec, keeping authored order on ties.
func SortLines(lines []SlotLine) []SlotLine {
	sorted := append([]SlotLine(nil), lines...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].FromSec < sorted[j].FromSec
	})
	return sorted
}

// Plan lays out silence and speech for lines sorted by FromSec: leading
// silence up to the first line, each line's slot, and the gap to the next
// line. Every positive gap is kept so the running total lands each line on
// its FromSec; overlapping lines get no gap.
func Plan(sorted []SlotLine) []PlannedSegment {
	if len(sorted) == 0 {
		return nil
	}
	segments := make([]PlannedSegment, 0, len(sorted)*2+1)
	if first := sorted[0].FromSec; first >= timeResolution {
		segments = append(segments, PlannedSegment{Kind: KindSilence, Line: -1, FromSec: 0, ToSec: first})
	}
	for i, line := range sorted {
		segments = append(segments, PlannedSegment{Kind: KindSpeech, Line: i, FromSec: line.FromSec, ToSec: line.ToSec})
		if i+1 >= len(sorted) {
			break
		}
		next := sorted[i+1].FromSec
		if next-line.ToSec >= timeResolution {
			segments = append(segments, PlannedSegment{Kind: KindSilence, Line: -1, FromSec: line.ToSec, ToSec: next})
		}
	}
	return segments
}
