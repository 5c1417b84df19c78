package audio

import (
	"context"
	"strconv"

	"pilotcast/internal/media/ffprobe"
)

// Prober inspects media files: Duration for raw clips, Audio for rendered
// output whose format must be checked.
type Prober interface {
	Duration(ctx context.Context, path string) (float64, error)
	Audio(ctx context.Context, path string) (ffprobe.AudioInfo, error)
}

// Processor runs the audio tool with the given arguments. Output paths are
// part of args.
type Processor interface {
	Run(ctx context.Context, args ...string) error
}

// Format is the canonical intermediate and output audio format.
type Format struct {
	SampleRate int
	Channels   int
	Codec      string
	Bitrate    string
}

// DefaultFormat is 48 kHz stereo, encoded as 64 kbit/s MP3.
var DefaultFormat = Format{
	SampleRate: 48000,
	Channels:   2,
	Codec:      "libmp3lame",
	Bitrate:    "64k",
}

func (f Format) withDefaults() Format {
	if f.SampleRate <= 0 {
		f.SampleRate = DefaultFormat.SampleRate
	}
	if f.Channels <= 0 {
		f.Channels = DefaultFormat.Channels
	}
	if f.Codec == "" {
		f.Codec = DefaultFormat.Codec
	}
	if f.Bitrate == "" {
		f.Bitrate = DefaultFormat.Bitrate
	}
	return f
}

func (f Format) resampleArgs() []string {
	return []string{"-ar", strconv.Itoa(f.SampleRate), "-ac", strconv.Itoa(f.Channels)}
}

func (f Format) channelLayout() string {
	if f.Channels == 1 {
		return "mono"
	}
	return "stereo"
}

// Kind distinguishes speech segments from silence.
type Kind int

const (
	KindSilence Kind = iota
	KindSpeech
)

func (k Kind) String() string {
	switch k {
	case KindSpeech:
		return "speech"
	default:
		return "silence"
	}
}

// Segment is a rendered, exact-duration piece of the output timeline.
type Segment struct {
	Kind        Kind
	Path        string
	DurationSec float64
}
