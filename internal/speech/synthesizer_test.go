package speech_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pilotcast/internal/segcache"
	"pilotcast/internal/services"
	"pilotcast/internal/speech"
)

type fakeProvider struct {
	calls int
	err   error
}

func (f *fakeProvider) Synthesize(_ context.Context, voiceID, modelID, text string) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []byte(fmt.Sprintf("%s|%s|%s|call%d", voiceID, modelID, text, f.calls)), nil
}

func openCache(t *testing.T, dir string) *segcache.Cache {
	t.Helper()
	cache, err := segcache.Open(context.Background(), dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func options(force bool) speech.Options {
	return speech.Options{
		ModelID:    "eleven_multilingual_v2",
		Credential: "key",
		Voices:     map[string]string{"Host": "voice-host", "ops": "voice-ops"},
		Force:      force,
	}
}

func TestCacheReuseAcrossRuns(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	provider := &fakeProvider{}

	first := speech.New(provider, openCache(t, dir), options(false))
	clip, err := first.Synthesize(ctx, "host", "Welcome back.")
	require.NoError(t, err)
	assert.False(t, clip.Cached)

	second := speech.New(provider, openCache(t, dir), options(false))
	again, err := second.Synthesize(ctx, "host", "Welcome back.")
	require.NoError(t, err)
	assert.True(t, again.Cached)
	assert.Equal(t, clip.Path, again.Path)
	assert.Equal(t, clip.Fingerprint, again.Fingerprint)

	assert.Equal(t, 1, provider.calls)
}

func TestForceRegeneratesOncePerRun(t *testing.T) {
	ctx := context.Background()
	cache := openCache(t, t.TempDir())
	provider := &fakeProvider{}

	_, err := speech.New(provider, cache, options(false)).Synthesize(ctx, "host", "Repeat me.")
	require.NoError(t, err)
	require.Equal(t, 1, provider.calls)

	forced := speech.New(provider, cache, options(true))
	clip, err := forced.Synthesize(ctx, "host", "Repeat me.")
	require.NoError(t, err)
	assert.False(t, clip.Cached)
	assert.Equal(t, 2, provider.calls)

	data, err := os.ReadFile(clip.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "call2")

	// the same line later in the same run reuses the regenerated clip
	repeat, err := forced.Synthesize(ctx, "host", "Repeat me.")
	require.NoError(t, err)
	assert.True(t, repeat.Cached)
	assert.Equal(t, 2, provider.calls)
}

func TestMissingVoiceFailsBeforeNetwork(t *testing.T) {
	provider := &fakeProvider{}
	synth := speech.New(provider, openCache(t, t.TempDir()), options(false))

	_, err := synth.Synthesize(context.Background(), "friend2", "Hi")
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrConfiguration))
	assert.Equal(t, 0, provider.calls)
}

func TestMissingCredentialFailsBeforeNetwork(t *testing.T) {
	provider := &fakeProvider{}
	opts := options(false)
	opts.Credential = "  "
	synth := speech.New(provider, openCache(t, t.TempDir()), opts)

	_, err := synth.Synthesize(context.Background(), "host", "Hi")
	assert.True(t, errors.Is(err, services.ErrConfiguration))
	assert.True(t, errors.Is(synth.Preflight([]string{"host"}), services.ErrConfiguration))
	assert.Equal(t, 0, provider.calls)
}

func TestPreflightReportsAllMissingSpeakers(t *testing.T) {
	synth := speech.New(&fakeProvider{}, openCache(t, t.TempDir()), options(false))

	require.NoError(t, synth.Preflight([]string{"host", "OPS", "host"}))

	err := synth.Preflight([]string{"host", "friend2", "friend1", "friend2"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrConfiguration))
	assert.Contains(t, err.Error(), "friend1, friend2")
}

func TestProviderFailureIsNotCached(t *testing.T) {
	ctx := context.Background()
	cache := openCache(t, t.TempDir())
	provider := &fakeProvider{err: &services.HTTPError{Provider: "elevenlabs", Status: 500, Body: "boom"}}
	synth := speech.New(provider, cache, options(false))

	_, err := synth.Synthesize(ctx, "ops", "Fails")
	require.Error(t, err)
	var httpErr *services.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, 500, httpErr.Status)

	key, err := synth.Key("ops", "Fails")
	require.NoError(t, err)
	_, ok, err := cache.Lookup(ctx, key.Fingerprint())
	require.NoError(t, err)
	assert.False(t, ok)
}
