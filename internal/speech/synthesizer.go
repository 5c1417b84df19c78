package speech

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"pilotcast/internal/logging"
	"pilotcast/internal/segcache"
	"pilotcast/internal/services"
)

// Provider renders text with a voice and model.
type Provider interface {
	Synthesize(ctx context.Context, voiceID, modelID, text string) ([]byte, error)
}

// Cache is the subset of the segment cache the synthesizer needs.
type Cache interface {
	Lookup(ctx context.Context, fp string) (string, bool, error)
	Store(ctx context.Context, key segcache.Key, data []byte) (string, error)
	Evict(ctx context.Context, fp string) error
}

// Options configures a Synthesizer.
type Options struct {
	ModelID    string
	Credential string
	// Voices maps speaker id (case-insensitive) to provider voice id.
	Voices map[string]string
	Force  bool
	Logger *slog.Logger
}

// Clip is a synthesized (or cached) raw clip on disk.
type Clip struct {
	Path        string
	Fingerprint string
	Cached      bool
}

// Synthesizer is not safe for concurrent use.
type Synthesizer struct {
	provider    Provider
	cache       Cache
	modelID     string
	credential  string
	voices      map[string]string
	force       bool
	regenerated map[string]struct{}
	logger      *slog.Logger
}

// New constructs a Synthesizer.
func New(provider Provider, cache Cache, opts Options) *Synthesizer {
	voices := make(map[string]string, len(opts.Voices))
	for speaker, voice := range opts.Voices {
		voice = strings.TrimSpace(voice)
		if voice == "" {
			continue
		}
		voices[speakerKey(speaker)] = voice
	}
	return &Synthesizer{
		provider:    provider,
		cache:       cache,
		modelID:     strings.TrimSpace(opts.ModelID),
		credential:  strings.TrimSpace(opts.Credential),
		voices:      voices,
		force:       opts.Force,
		regenerated: make(map[string]struct{}),
		logger:      logging.NewComponentLogger(opts.Logger, "speech"),
	}
}

func speakerKey(speaker string) string {
	return strings.ToLower(strings.TrimSpace(speaker))
}

// Preflight verifies the credential and that every speaker has a voice.
// All missing speakers are reported together.
func (s *Synthesizer) Preflight(speakers []string) error {
	if s.credential == "" {
		return services.Wrap(services.ErrConfiguration, "speech", "preflight", "provider api key is not set", nil)
	}
	var missing []string
	seen := make(map[string]struct{}, len(speakers))
	for _, speaker := range speakers {
		key := speakerKey(speaker)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if _, ok := s.voices[key]; !ok {
			missing = append(missing, speaker)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return services.Wrap(services.ErrConfiguration, "speech", "preflight",
			fmt.Sprintf("no voice configured for speaker(s) %s", strings.Join(missing, ", ")), nil)
	}
	return nil
}

// Voice returns the voice id for speaker.
func (s *Synthesizer) Voice(speaker string) (string, error) {
	voice, ok := s.voices[speakerKey(speaker)]
	if !ok {
		return "", services.Wrap(services.ErrConfiguration, "speech", "resolve voice",
			fmt.Sprintf("no voice configured for speaker %q", speaker), nil)
	}
	return voice, nil
}

// Key returns the cache key a line would be stored under.
func (s *Synthesizer) Key(speaker, text string) (segcache.Key, error) {
	voice, err := s.Voice(speaker)
	if err != nil {
		return segcache.Key{}, err
	}
	return segcache.Key{Speaker: speaker, VoiceID: voice, ModelID: s.modelID, Text: text}, nil
}

// Synthesize returns a clip for speaker saying text, calling the provider
// only when the cache has no entry (or the entry was evicted by a forced
// run).
func (s *Synthesizer) Synthesize(ctx context.Context, speaker, text string) (Clip, error) {
	if s.credential == "" {
		return Clip{}, services.Wrap(services.ErrConfiguration, "speech", "synthesize", "provider api key is not set", nil)
	}
	key, err := s.Key(speaker, text)
	if err != nil {
		return Clip{}, err
	}
	fp := key.Fingerprint()
	logger := s.logger.With(logging.String(logging.FieldSpeaker, speaker), logging.String(logging.FieldFingerprint, fp[:12]))

	if s.force {
		if _, done := s.regenerated[fp]; !done {
			if err := s.cache.Evict(ctx, fp); err != nil {
				return Clip{}, fmt.Errorf("evict segment: %w", err)
			}
			logger.Debug("evicted cached segment for regeneration")
		}
	}

	path, ok, err := s.cache.Lookup(ctx, fp)
	if err != nil {
		return Clip{}, fmt.Errorf("lookup segment: %w", err)
	}
	if ok {
		logger.Debug("segment cache hit")
		return Clip{Path: path, Fingerprint: fp, Cached: true}, nil
	}

	logger.Debug("requesting synthesis", logging.Int("chars", len(text)))
	audio, err := s.provider.Synthesize(ctx, key.VoiceID, key.ModelID, text)
	if err != nil {
		return Clip{}, services.Wrap(nil, "speech", "synthesize", fmt.Sprintf("speaker %s", speaker), err)
	}
	path, err = s.cache.Store(ctx, key, audio)
	if err != nil {
		return Clip{}, fmt.Errorf("store segment: %w", err)
	}
	if s.force {
		s.regenerated[fp] = struct{}{}
	}
	return Clip{Path: path, Fingerprint: fp, Cached: false}, nil
}
