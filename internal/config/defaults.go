package config

import "pilotcast/internal/language"

const (
	defaultShowDir            = "client/public/show/pilot-v1"
	defaultCacheDir           = "~/.cache/pilotcast"
	defaultStagingDir         = "~/.local/share/pilotcast/staging"
	defaultLogDir             = "~/.local/share/pilotcast/logs"
	defaultSynthesisBaseURL   = "https://api.elevenlabs.io"
	defaultSynthesisModelID   = "eleven_multilingual_v2"
	defaultSynthesisTimeout   = 60
	defaultRequestsPerMinute  = 30
	defaultStability          = 0.5
	defaultSimilarityBoost    = 0.75
	defaultFFmpegBinary       = "ffmpeg"
	defaultFFprobeBinary      = "ffprobe"
	defaultSampleRate         = 48000
	defaultChannels           = 2
	defaultCodec              = "libmp3lame"
	defaultBitrate            = "64k"
	defaultNormalizeWorkers   = 1
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultScriptFileName     = "script.json"
	defaultCaptionsDirName    = "captions"
	defaultAudioFileName      = "pilot.mp3"
	envAPIKey                 = "ELEVENLABS_API_KEY"
	envModelID                = "ELEVENLABS_MODEL_ID"
	envBaseURL                = "ELEVENLABS_BASE_URL"
	envVoicePrefix            = "ELEVENLABS_VOICE_ID_"
	defaultConfigSearchPath   = "~/.config/pilotcast/config.toml"
	defaultProjectConfigName  = "pilotcast.toml"
	defaultDotEnvFileName     = ".env"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ShowDir:    defaultShowDir,
			CacheDir:   defaultCacheDir,
			StagingDir: defaultStagingDir,
			LogDir:     defaultLogDir,
		},
		Synthesis: Synthesis{
			BaseURL:           defaultSynthesisBaseURL,
			ModelID:           defaultSynthesisModelID,
			TimeoutSeconds:    defaultSynthesisTimeout,
			RequestsPerMinute: defaultRequestsPerMinute,
			Voices:            map[string]string{},
			VoiceSettings: VoiceSettings{
				Stability:       defaultStability,
				SimilarityBoost: defaultSimilarityBoost,
				SpeakerBoost:    true,
			},
		},
		Audio: Audio{
			FFmpeg:           defaultFFmpegBinary,
			FFprobe:          defaultFFprobeBinary,
			SampleRate:       defaultSampleRate,
			Channels:         defaultChannels,
			Codec:            defaultCodec,
			Bitrate:          defaultBitrate,
			NormalizeWorkers: defaultNormalizeWorkers,
		},
		Captions: Captions{
			Languages: language.Supported(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
