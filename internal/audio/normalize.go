package audio

import (
	"context"
	"fmt"
	"math"

	"pilotcast/internal/services"
)

// minSlotSec is the shortest slot a clip is stretched into. Shorter slots
// keep the clip's natural length.
const minSlotSec = 0.05

// Normalizer retimes raw clips to their slot length.
type Normalizer struct {
	prober    Prober
	processor Processor
	format    Format
}

// NewNormalizer constructs a Normalizer writing format-resampled WAVs.
func NewNormalizer(prober Prober, processor Processor, format Format) *Normalizer {
	return &Normalizer{prober: prober, processor: processor, format: format.withDefaults()}
}

// Normalize stretches raw to desired seconds and writes a WAV to out. The
// written file is probed and must match the canonical format.
func (n *Normalizer) Normalize(ctx context.Context, raw, out string, desired float64) (Segment, error) {
	actual, err := n.prober.Duration(ctx, raw)
	if err != nil {
		return Segment{}, services.Wrap(nil, "audio", "probe", raw, err)
	}
	if math.IsNaN(actual) || actual <= 0 {
		return Segment{}, services.Wrap(services.ErrIntegrity, "audio", "probe",
			fmt.Sprintf("%s has unusable duration %v", raw, actual), nil)
	}
	if desired <= minSlotSec {
		desired = math.Max(minSlotSec, actual)
	}

	args := []string{"-i", raw, "-filter:a", StretchFilter(actual, desired)}
	args = append(args, n.format.resampleArgs()...)
	args = append(args, out)
	if err := n.processor.Run(ctx, args...); err != nil {
		return Segment{}, services.Wrap(nil, "audio", "normalize", raw, err)
	}
	if err := n.verify(ctx, out); err != nil {
		return Segment{}, err
	}
	return Segment{Kind: KindSpeech, Path: out, DurationSec: desired}, nil
}

// verify checks that out came back in the canonical format; the concat
// demuxer needs every segment to match.
func (n *Normalizer) verify(ctx context.Context, out string) error {
	info, err := n.prober.Audio(ctx, out)
	if err != nil {
		return services.Wrap(nil, "audio", "verify", out, err)
	}
	if info.SampleRate != n.format.SampleRate || info.Channels != n.format.Channels {
		return services.Wrap(services.ErrIntegrity, "audio", "verify",
			fmt.Sprintf("%s is %d Hz/%d ch, want %d Hz/%d ch", out,
				info.SampleRate, info.Channels, n.format.SampleRate, n.format.Channels), nil)
	}
	return nil
}
