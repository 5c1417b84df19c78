package audio

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"pilotcast/internal/services"
)

// Renderer turns planned segments and their raw clips into the final track.
type Renderer struct {
	prober     Prober
	normalizer *Normalizer
	assembler  *Assembler
	workers    int
}

// NewRenderer builds a Renderer. workers bounds how many segments are
// rendered at once; values below 1 mean 1.
func NewRenderer(prober Prober, processor Processor, format Format, workers int) *Renderer {
	if workers < 1 {
		workers = 1
	}
	return &Renderer{
		prober:     prober,
		normalizer: NewNormalizer(prober, processor, format),
		assembler:  NewAssembler(processor, format),
		workers:    workers,
	}
}

// RenderResult summarizes a rendered track.
type RenderResult struct {
	Segments    []Segment
	DurationSec float64
	// BitRate is the encoded track's bitrate as reported by the probe.
	BitRate int64
}

// Render normalizes clips[i] into the slot of sorted[i], renders the
// planned silences into scratchDir, concatenates everything into out, and
// probes the encoded result.
// Segment jobs are local and run on up to workers goroutines; the output
// order is always the plan order.
func (r *Renderer) Render(ctx context.Context, sorted []SlotLine, clips []string, scratchDir, out string) (RenderResult, error) {
	if len(clips) != len(sorted) {
		return RenderResult{}, fmt.Errorf("render: %d clips for %d lines", len(clips), len(sorted))
	}
	plan := Plan(sorted)
	segments := make([]Segment, len(plan))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, planned := range plan {
		g.Go(func() error {
			var (
				seg Segment
				err error
			)
			switch planned.Kind {
			case KindSpeech:
				line := sorted[planned.Line]
				path := filepath.Join(scratchDir, fmt.Sprintf("%04d_%04d_speech.wav", i, line.Index))
				seg, err = r.normalizer.Normalize(gctx, clips[planned.Line], path, planned.Duration())
			default:
				path := filepath.Join(scratchDir, fmt.Sprintf("%04d_silence.wav", i))
				seg, err = r.assembler.Silence(gctx, path, planned.Duration())
			}
			if err != nil {
				return err
			}
			segments[i] = seg
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return RenderResult{}, err
	}

	if err := r.assembler.Assemble(ctx, segments, out); err != nil {
		return RenderResult{}, err
	}
	info, err := r.prober.Audio(ctx, out)
	if err != nil {
		return RenderResult{}, services.Wrap(nil, "audio", "verify", out, err)
	}
	total := 0.0
	for _, seg := range segments {
		total += seg.DurationSec
	}
	return RenderResult{Segments: segments, DurationSec: total, BitRate: info.BitRate}, nil
}
