package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pilotcast/internal/captions"
	"pilotcast/internal/logging"
	"pilotcast/internal/publish"
	"pilotcast/internal/script"
	"pilotcast/internal/services"
	"pilotcast/internal/staging"
	"pilotcast/internal/timeline"
)

// Request selects what a build produces.
type Request struct {
	SpecPath   string
	Audio      bool
	Force      bool
	KeepBackup bool
}

// Report summarizes a finished build.
type Report struct {
	RunID        string
	ScriptPath   string
	CaptionPaths []string
	Events       int
	Lines        int
	Audio        *AudioReport
	Elapsed      time.Duration
}

// AudioReport summarizes the audio stage of a build.
type AudioReport struct {
	Publish     publish.Result
	DurationSec float64
	BitRate     int64
	Generated   int
	Cached      int
}

// Build compiles the script at req.SpecPath into the show directory. The
// stage timeline and captions are always written; the audio track only
// when req.Audio is set.
func (b *Builder) Build(ctx context.Context, req Request) (Report, error) {
	start := time.Now()
	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, b.logger)

	spec, err := script.Load(req.SpecPath)
	if err != nil {
		return Report{}, err
	}
	if err := b.cfg.EnsureDirectories(); err != nil {
		return Report{}, services.Wrap(services.ErrConfiguration, "workflow", "prepare", "create directories", err)
	}
	staging.CleanStale(ctx, b.cfg.Paths.StagingDir, staleScratchAge, logger)

	report := Report{RunID: runID, Lines: len(spec.Lines)}

	stage := timeline.Compile(spec)
	report.ScriptPath = b.cfg.ScriptPath()
	report.Events = len(stage.Events)
	if err := stage.Write(report.ScriptPath); err != nil {
		return Report{}, fmt.Errorf("write stage script: %w", err)
	}
	logger.Info("wrote stage script",
		logging.String("path", report.ScriptPath),
		logging.Int("events", report.Events),
		logging.Int("scenes", len(stage.Scenes)),
		logging.String(logging.FieldEventType, "stage_script_written"),
	)

	report.CaptionPaths, err = writeCaptions(spec, b.cfg.Captions.Languages, b.cfg.CaptionsDir())
	if err != nil {
		return Report{}, err
	}
	logger.Info("wrote captions",
		logging.String("dir", b.cfg.CaptionsDir()),
		logging.Int("tracks", len(report.CaptionPaths)),
		logging.String(logging.FieldEventType, "captions_written"),
	)

	if req.Audio {
		audioReport, err := b.buildAudio(ctx, spec, req)
		if err != nil {
			return Report{}, err
		}
		report.Audio = &audioReport
	}

	report.Elapsed = time.Since(start)
	logger.Info("build complete",
		logging.Duration("elapsed", report.Elapsed),
		logging.Bool("audio", req.Audio),
		logging.String(logging.FieldEventType, "build_complete"),
	)
	return report, nil
}

// Captions renders caption tracks for the script at specPath into outDir,
// or into the configured captions directory when outDir is blank.
func (b *Builder) Captions(ctx context.Context, specPath, outDir string) ([]string, error) {
	spec, err := script.Load(specPath)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(outDir) == "" {
		outDir = b.cfg.CaptionsDir()
	}
	paths, err := writeCaptions(spec, b.cfg.Captions.Languages, outDir)
	if err != nil {
		return nil, err
	}
	logging.WithContext(ctx, b.logger).Info("wrote captions",
		logging.String("dir", outDir),
		logging.Int("tracks", len(paths)),
		logging.String(logging.FieldEventType, "captions_written"),
	)
	return paths, nil
}

func writeCaptions(spec *script.Spec, languages []string, dir string) ([]string, error) {
	paths, err := captions.WriteTracks(dir, captions.Render(spec, languages))
	if err != nil {
		return nil, fmt.Errorf("write captions: %w", err)
	}
	return paths, nil
}
