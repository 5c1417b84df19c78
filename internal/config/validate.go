package config

import (
	"errors"
	"fmt"
	"strings"

	"pilotcast/internal/language"
)

// Validate ensures the configuration is usable. The provider credential is
// not required here: caption-only runs never synthesize.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSynthesis(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateCaptions(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.ShowDir) == "" {
		return errors.New("paths.show_dir must be set")
	}
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		return errors.New("paths.cache_dir must be set")
	}
	if c.Paths.CacheDir == c.Paths.ShowDir {
		return errors.New("paths.cache_dir must differ from paths.show_dir")
	}
	return nil
}

func (c *Config) validateSynthesis() error {
	if !strings.HasPrefix(c.Synthesis.BaseURL, "http://") && !strings.HasPrefix(c.Synthesis.BaseURL, "https://") {
		return fmt.Errorf("synthesis.base_url must be an http(s) URL, got %q", c.Synthesis.BaseURL)
	}
	if c.Synthesis.TimeoutSeconds < 1 {
		return errors.New("synthesis.timeout_seconds must be at least 1")
	}
	if c.Synthesis.RequestsPerMinute < 1 {
		return errors.New("synthesis.requests_per_minute must be at least 1")
	}
	settings := c.Synthesis.VoiceSettings
	for _, field := range []struct {
		name  string
		value float64
	}{
		{"stability", settings.Stability},
		{"similarity_boost", settings.SimilarityBoost},
		{"style", settings.Style},
	} {
		if field.value < 0 || field.value > 1 {
			return fmt.Errorf("synthesis.voice_settings.%s must be between 0 and 1, got %v", field.name, field.value)
		}
	}
	return nil
}

func (c *Config) validateAudio() error {
	if c.Audio.SampleRate < 8000 {
		return errors.New("audio.sample_rate must be at least 8000")
	}
	if c.Audio.Channels < 1 || c.Audio.Channels > 2 {
		return errors.New("audio.channels must be 1 or 2")
	}
	if c.Audio.NormalizeWorkers < 1 {
		return errors.New("audio.normalize_workers must be at least 1")
	}
	return nil
}

func (c *Config) validateCaptions() error {
	for _, code := range c.Captions.Languages {
		if !language.IsSupported(code) {
			return fmt.Errorf("captions.languages: %q is not supported (choose from %s)", code, strings.Join(language.Supported(), ", "))
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

// RequireSynthesis reports whether audio builds can reach the provider.
func (c *Config) RequireSynthesis() error {
	if strings.TrimSpace(c.Synthesis.APIKey) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = defaultConfigSearchPath
		}
		return fmt.Errorf("synthesis.api_key is required for audio. Set %s env var or edit %s (create with 'pilotcast config init')", envAPIKey, defaultPath)
	}
	return nil
}
