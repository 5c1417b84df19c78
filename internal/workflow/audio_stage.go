package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"pilotcast/internal/audio"
	"pilotcast/internal/logging"
	"pilotcast/internal/publish"
	"pilotcast/internal/script"
	"pilotcast/internal/segcache"
	"pilotcast/internal/services"
	"pilotcast/internal/speech"
)

const trackFileName = "pilot.mp3"

func (b *Builder) buildAudio(ctx context.Context, spec *script.Spec, req Request) (AudioReport, error) {
	ctx = services.WithStage(ctx, "audio")
	logger := logging.WithContext(ctx, b.logger)

	if err := b.cfg.RequireSynthesis(); err != nil {
		return AudioReport{}, services.Wrap(services.ErrConfiguration, "workflow", "audio", "synthesis credential", err)
	}
	if err := b.runPreflightChecks(ctx, logger); err != nil {
		return AudioReport{}, err
	}

	cache, err := segcache.Open(ctx, b.cfg.Paths.CacheDir)
	if err != nil {
		return AudioReport{}, err
	}
	defer func() {
		if err := cache.Close(); err != nil {
			logger.Warn("failed to close segment cache",
				logging.Error(err),
				logging.String(logging.FieldEventType, "segment_cache_close_failed"),
				logging.String(logging.FieldErrorHint, "check cache_dir permissions"),
				logging.String(logging.FieldImpact, "cache index may need recovery on next run"),
			)
		}
	}()

	synth := speech.New(b.provider, cache, speech.Options{
		ModelID:    b.cfg.Synthesis.ModelID,
		Credential: b.cfg.Synthesis.APIKey,
		Voices:     b.cfg.Synthesis.Voices,
		Force:      req.Force,
		Logger:     logger,
	})
	if err := synth.Preflight(spec.Speakers()); err != nil {
		return AudioReport{}, err
	}

	guard, err := publish.New(publish.Options{
		Asset:      b.cfg.AudioPath(),
		StagingDir: b.cfg.Paths.StagingDir,
		KeepBackup: req.KeepBackup,
		Logger:     logger,
	})
	if err != nil {
		return AudioReport{}, err
	}

	var report AudioReport
	result, err := guard.Publish(ctx, func(ctx context.Context, scratch string) (string, error) {
		sorted := audio.SortLines(slotLines(spec.Lines))
		clips, generated, err := synthesizeLines(ctx, synth, sorted, logger)
		if err != nil {
			return "", err
		}
		report.Generated = generated
		report.Cached = len(sorted) - generated

		renderer := audio.NewRenderer(b.prober, b.processor, b.format(), b.cfg.Audio.NormalizeWorkers)
		out := filepath.Join(scratch, trackFileName)
		rendered, err := renderer.Render(services.WithStage(ctx, "render"), sorted, clips, scratch, out)
		if err != nil {
			return "", err
		}
		report.DurationSec = rendered.DurationSec
		report.BitRate = rendered.BitRate
		logger.Info("assembled track",
			logging.Int("segments", len(rendered.Segments)),
			logging.Float64("duration_sec", rendered.DurationSec),
			logging.Int64("bit_rate", rendered.BitRate),
			logging.String(logging.FieldEventType, "track_assembled"),
		)
		return out, nil
	})
	if err != nil {
		return AudioReport{}, err
	}
	report.Publish = result
	return report, nil
}

func slotLines(lines []script.Line) []audio.SlotLine {
	slots := make([]audio.SlotLine, len(lines))
	for i, line := range lines {
		slots[i] = audio.SlotLine{
			Index:   i,
			Speaker: line.Speaker,
			Text:    line.Text,
			FromSec: line.FromSec,
			ToSec:   line.ToSec,
		}
	}
	return slots
}

// synthesizeLines fetches a raw clip for every line in order, one provider
// call at a time. It returns the clip paths aligned with sorted and the
// number of clips that had to be generated.
func synthesizeLines(ctx context.Context, synth *speech.Synthesizer, sorted []audio.SlotLine, logger *slog.Logger) ([]string, int, error) {
	clips := make([]string, len(sorted))
	generated := 0
	total := len(sorted)
	for i, line := range sorted {
		if err := ctx.Err(); err != nil {
			return nil, generated, err
		}
		attrs := []logging.Attr{
			logging.String(logging.FieldSpeaker, line.Speaker),
			logging.Int(logging.FieldLineIndex, i+1),
			logging.Int(logging.FieldLineCount, total),
		}
		clip, err := synth.Synthesize(ctx, line.Speaker, line.Text)
		if err != nil {
			return nil, generated, fmt.Errorf("line %d/%d: %w", i+1, total, err)
		}
		clips[i] = clip.Path
		if clip.Cached {
			logger.Info("cache hit", logging.Args(append(attrs,
				logging.String(logging.FieldEventType, "segment_cache_hit"))...)...)
			continue
		}
		generated++
		logger.Info("generated speech", logging.Args(append(attrs,
			logging.String(logging.FieldEventType, "segment_generated"))...)...)
	}
	return clips, generated, nil
}
