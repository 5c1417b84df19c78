package workflow

import (
	"log/slog"
	"time"

	"pilotcast/internal/audio"
	"pilotcast/internal/config"
	"pilotcast/internal/deps"
	"pilotcast/internal/logging"
	"pilotcast/internal/media/ffmpeg"
	"pilotcast/internal/media/ffprobe"
	"pilotcast/internal/services/elevenlabs"
	"pilotcast/internal/speech"
)

// staleScratchAge is how old an abandoned run directory must be before a
// new build removes it.
const staleScratchAge = 24 * time.Hour

// Builder coordinates the build stages for one configuration.
type Builder struct {
	cfg       *config.Config
	logger    *slog.Logger
	provider  speech.Provider
	prober    audio.Prober
	processor audio.Processor
	checkDeps bool
}

// Option customizes a Builder.
type Option func(*Builder)

// WithProvider replaces the synthesis provider.
func WithProvider(provider speech.Provider) Option {
	return func(b *Builder) {
		if provider != nil {
			b.provider = provider
		}
	}
}

// WithAudioTools replaces the duration prober and audio processor. External
// binaries are not checked when tools are injected.
func WithAudioTools(prober audio.Prober, processor audio.Processor) Option {
	return func(b *Builder) {
		if prober != nil && processor != nil {
			b.prober = prober
			b.processor = processor
			b.checkDeps = false
		}
	}
}

// NewBuilder wires the production provider and ffmpeg tools from cfg.
func NewBuilder(cfg *config.Config, logger *slog.Logger, opts ...Option) *Builder {
	b := &Builder{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "workflow"),
		checkDeps: true,
	}
	b.provider = elevenlabs.NewClient(cfg.Synthesis.APIKey,
		elevenlabs.WithBaseURL(cfg.Synthesis.BaseURL),
		elevenlabs.WithTimeout(time.Duration(cfg.Synthesis.TimeoutSeconds)*time.Second),
		elevenlabs.WithRequestsPerMinute(cfg.Synthesis.RequestsPerMinute),
		elevenlabs.WithVoiceSettings(elevenlabs.VoiceSettings{
			Stability:       cfg.Synthesis.VoiceSettings.Stability,
			SimilarityBoost: cfg.Synthesis.VoiceSettings.SimilarityBoost,
			Style:           cfg.Synthesis.VoiceSettings.Style,
			UseSpeakerBoost: cfg.Synthesis.VoiceSettings.SpeakerBoost,
		}),
	)
	b.prober = ffprobe.Prober{Binary: deps.ResolveFFprobe(cfg.FFmpegBinary(), cfg.FFprobeBinary())}
	b.processor = ffmpeg.New(cfg.FFmpegBinary())
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Builder) format() audio.Format {
	return audio.Format{
		SampleRate: b.cfg.Audio.SampleRate,
		Channels:   b.cfg.Audio.Channels,
		Codec:      b.cfg.Audio.Codec,
		Bitrate:    b.cfg.Audio.Bitrate,
	}
}
