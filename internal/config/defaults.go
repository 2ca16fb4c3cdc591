package config

const (
	defaultRendererBinary = "deck2png"
	defaultTTSBinary      = "csm-voice"
	defaultFFmpegBinary   = "ffmpeg"
	defaultFFprobeBinary  = "ffprobe"
	defaultVideoFPS       = 24
	defaultVideoCodec     = "libx264"
	defaultAudioCodec     = "aac"
	defaultVideoPreset    = "ultrafast"
	defaultVideoBitrate   = "1000k"
	defaultPauseSeconds   = 1.0
	defaultToolTimeout    = 600
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Tools: Tools{
			Renderer: defaultRendererBinary,
			TTS:      defaultTTSBinary,
			FFmpeg:   defaultFFmpegBinary,
			FFprobe:  defaultFFprobeBinary,
		},
		Video: Video{
			FPS:          defaultVideoFPS,
			Codec:        defaultVideoCodec,
			AudioCodec:   defaultAudioCodec,
			Preset:       defaultVideoPreset,
			Bitrate:      defaultVideoBitrate,
			PauseSeconds: defaultPauseSeconds,
		},
		Workflow: Workflow{
			ToolTimeout: defaultToolTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Ledger: Ledger{
			Enabled: true,
		},
	}
}
