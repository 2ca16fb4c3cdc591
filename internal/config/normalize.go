package config

import "strings"

func (c *Config) normalize() error {
	c.normalizeTools()
	c.normalizeVideo()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeTools() {
	c.Tools.Renderer = strings.TrimSpace(c.Tools.Renderer)
	c.Tools.TTS = strings.TrimSpace(c.Tools.TTS)
	c.Tools.FFmpeg = strings.TrimSpace(c.Tools.FFmpeg)
	c.Tools.FFprobe = strings.TrimSpace(c.Tools.FFprobe)
	if c.Tools.Renderer == "" {
		c.Tools.Renderer = defaultRendererBinary
	}
	if c.Tools.TTS == "" {
		c.Tools.TTS = defaultTTSBinary
	}
	if c.Tools.FFmpeg == "" {
		c.Tools.FFmpeg = defaultFFmpegBinary
	}
	if c.Tools.FFprobe == "" {
		c.Tools.FFprobe = defaultFFprobeBinary
	}
}

func (c *Config) normalizeVideo() {
	c.Video.Codec = strings.TrimSpace(c.Video.Codec)
	c.Video.AudioCodec = strings.TrimSpace(c.Video.AudioCodec)
	c.Video.Preset = strings.TrimSpace(c.Video.Preset)
	c.Video.Bitrate = strings.TrimSpace(c.Video.Bitrate)
	if c.Video.Codec == "" {
		c.Video.Codec = defaultVideoCodec
	}
	if c.Video.AudioCodec == "" {
		c.Video.AudioCodec = defaultAudioCodec
	}
	if c.Video.Preset == "" {
		c.Video.Preset = defaultVideoPreset
	}
	if c.Video.Bitrate == "" {
		c.Video.Bitrate = defaultVideoBitrate
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
