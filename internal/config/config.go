package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	ShowDir    string `toml:"show_dir"`
	CacheDir   string `toml:"cache_dir"`
	StagingDir string `toml:"staging_dir"`
	LogDir     string `toml:"log_dir"`
}

// Synthesis contains the speech provider connection and the speaker voice map.
type Synthesis struct {
	APIKey            string            `toml:"api_key"`
	BaseURL           string            `toml:"base_url"`
	ModelID           string            `toml:"model_id"`
	TimeoutSeconds    int               `toml:"timeout_seconds"`
	RequestsPerMinute int               `toml:"requests_per_minute"`
	Voices            map[string]string `toml:"voices"`
	VoiceSettings     VoiceSettings     `toml:"voice_settings"`
}

// VoiceSettings shape delivery for every synthesized line. They are not part
// of the segment fingerprint; rebuild with --force after changing them.
type VoiceSettings struct {
	Stability       float64 `toml:"stability"`
	SimilarityBoost float64 `toml:"similarity_boost"`
	Style           float64 `toml:"style"`
	SpeakerBoost    bool    `toml:"use_speaker_boost"`
}

// Audio contains ffmpeg tooling and the canonical output format.
type Audio struct {
	FFmpeg           string `toml:"ffmpeg"`
	FFprobe          string `toml:"ffprobe"`
	SampleRate       int    `toml:"sample_rate"`
	Channels         int    `toml:"channels"`
	Codec            string `toml:"codec"`
	Bitrate          string `toml:"bitrate"`
	NormalizeWorkers int    `toml:"normalize_workers"`
}

// Captions selects which subtitle tracks are rendered.
type Captions struct {
	Languages []string `toml:"languages"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for pilotcast.
//
// Configuration sections by subsystem:
//   - Paths: show output, segment cache, scratch staging, logs
//   - Synthesis: speech provider credentials, pacing, speaker voices
//   - Audio: ffmpeg binaries and encode format
//   - Captions: rendered caption languages
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Synthesis Synthesis `toml:"synthesis"`
	Audio     Audio     `toml:"audio"`
	Captions  Captions  `toml:"captions"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigSearchPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	if err := loadDotEnv(); err != nil {
		return nil, "", false, err
	}

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// loadDotEnv reads ./.env when present. Variables already in the
// environment win.
func loadDotEnv() error {
	info, err := os.Stat(defaultDotEnvFileName)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", defaultDotEnvFileName, err)
	}
	if info.IsDir() {
		return nil
	}
	if err := godotenv.Load(defaultDotEnvFileName); err != nil {
		return fmt.Errorf("load %s: %w", defaultDotEnvFileName, err)
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigSearchPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(defaultProjectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a build writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.ShowDir, c.Paths.CacheDir, c.Paths.StagingDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ScriptPath is the compiled stage timeline inside the show directory.
func (c *Config) ScriptPath() string {
	return filepath.Join(c.Paths.ShowDir, defaultScriptFileName)
}

// CaptionsDir is where per-language caption tracks are written.
func (c *Config) CaptionsDir() string {
	return filepath.Join(c.Paths.ShowDir, defaultCaptionsDirName)
}

// AudioPath is the published mixed audio asset.
func (c *Config) AudioPath() string {
	return filepath.Join(c.Paths.ShowDir, defaultAudioFileName)
}

// FFmpegBinary returns the ffmpeg executable name.
func (c *Config) FFmpegBinary() string {
	if strings.TrimSpace(c.Audio.FFmpeg) == "" {
		return defaultFFmpegBinary
	}
	return c.Audio.FFmpeg
}

// FFprobeBinary returns the ffprobe executable name used for duration probes.
func (c *Config) FFprobeBinary() string {
	if strings.TrimSpace(c.Audio.FFprobe) == "" {
		return defaultFFprobeBinary
	}
	return c.Audio.FFprobe
}

// VoiceFor returns the provider voice id configured for speaker.
func (c *Config) VoiceFor(speaker string) (string, bool) {
	voice, ok := c.Synthesis.Voices[voiceKey(speaker)]
	if !ok || strings.TrimSpace(voice) == "" {
		return "", false
	}
	return voice, true
}

// VoiceSpeakers returns the configured speaker ids in sorted order.
func (c *Config) VoiceSpeakers() []string {
	speakers := make([]string, 0, len(c.Synthesis.Voices))
	for speaker := range c.Synthesis.Voices {
		speakers = append(speakers, speaker)
	}
	sort.Strings(speakers)
	return speakers
}

func voiceKey(speaker string) string {
	return strings.ToLower(strings.TrimSpace(speaker))
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
