package config

import (
	"fmt"
	"os"
	"strings"

	"pilotcast/internal/language"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSynthesis()
	c.normalizeAudio()
	if err := c.normalizeCaptions(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.ShowDir) == "" {
		c.Paths.ShowDir = defaultShowDir
	}
	if c.Paths.ShowDir, err = expandPath(c.Paths.ShowDir); err != nil {
		return fmt.Errorf("paths.show_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		c.Paths.StagingDir = defaultStagingDir
	}
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSynthesis() {
	c.Synthesis.APIKey = strings.TrimSpace(c.Synthesis.APIKey)
	if c.Synthesis.APIKey == "" {
		if value, ok := os.LookupEnv(envAPIKey); ok {
			c.Synthesis.APIKey = strings.TrimSpace(value)
		}
	}
	c.Synthesis.ModelID = strings.TrimSpace(c.Synthesis.ModelID)
	if value, ok := os.LookupEnv(envModelID); ok && strings.TrimSpace(value) != "" {
		c.Synthesis.ModelID = strings.TrimSpace(value)
	}
	if c.Synthesis.ModelID == "" {
		c.Synthesis.ModelID = defaultSynthesisModelID
	}
	c.Synthesis.BaseURL = strings.TrimRight(strings.TrimSpace(c.Synthesis.BaseURL), "/")
	if value, ok := os.LookupEnv(envBaseURL); ok && strings.TrimSpace(value) != "" {
		c.Synthesis.BaseURL = strings.TrimRight(strings.TrimSpace(value), "/")
	}
	if c.Synthesis.BaseURL == "" {
		c.Synthesis.BaseURL = defaultSynthesisBaseURL
	}
	if c.Synthesis.TimeoutSeconds == 0 {
		c.Synthesis.TimeoutSeconds = defaultSynthesisTimeout
	}
	if c.Synthesis.RequestsPerMinute == 0 {
		c.Synthesis.RequestsPerMinute = defaultRequestsPerMinute
	}

	voices := make(map[string]string, len(c.Synthesis.Voices))
	for speaker, voice := range c.Synthesis.Voices {
		key := voiceKey(speaker)
		if key == "" {
			continue
		}
		voices[key] = strings.TrimSpace(voice)
	}
	// ELEVENLABS_VOICE_ID_<SPEAKER> fills speakers the file leaves unset.
	for _, pair := range os.Environ() {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || !strings.HasPrefix(name, envVoicePrefix) {
			continue
		}
		key := voiceKey(strings.TrimPrefix(name, envVoicePrefix))
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		if existing, ok := voices[key]; ok && existing != "" {
			continue
		}
		voices[key] = value
	}
	c.Synthesis.Voices = voices
}

func (c *Config) normalizeAudio() {
	c.Audio.FFmpeg = strings.TrimSpace(c.Audio.FFmpeg)
	if c.Audio.FFmpeg == "" {
		c.Audio.FFmpeg = defaultFFmpegBinary
	}
	c.Audio.FFprobe = strings.TrimSpace(c.Audio.FFprobe)
	if c.Audio.FFprobe == "" {
		c.Audio.FFprobe = defaultFFprobeBinary
	}
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = defaultSampleRate
	}
	if c.Audio.Channels == 0 {
		c.Audio.Channels = defaultChannels
	}
	c.Audio.Codec = strings.TrimSpace(c.Audio.Codec)
	if c.Audio.Codec == "" {
		c.Audio.Codec = defaultCodec
	}
	c.Audio.Bitrate = strings.TrimSpace(c.Audio.Bitrate)
	if c.Audio.Bitrate == "" {
		c.Audio.Bitrate = defaultBitrate
	}
	if c.Audio.NormalizeWorkers == 0 {
		c.Audio.NormalizeWorkers = defaultNormalizeWorkers
	}
}

func (c *Config) normalizeCaptions() error {
	if len(c.Captions.Languages) == 0 {
		c.Captions.Languages = language.Supported()
	}
	languages, err := language.NormalizeList(c.Captions.Languages)
	if err != nil {
		return fmt.Errorf("captions.languages: %w", err)
	}
	c.Captions.Languages = languages
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
