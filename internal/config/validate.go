package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTools(); err != nil {
		return err
	}
	if err := c.validateVideo(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateTools() error {
	for key, value := range map[string]string{
		"tools.renderer": c.Tools.Renderer,
		"tools.tts":      c.Tools.TTS,
		"tools.ffmpeg":   c.Tools.FFmpeg,
		"tools.ffprobe":  c.Tools.FFprobe,
	} {
		if value == "" {
			return fmt.Errorf("%s must be set", key)
		}
	}
	return nil
}

func (c *Config) validateVideo() error {
	if c.Video.FPS <= 0 {
		return errors.New("video.fps must be positive")
	}
	if c.Video.PauseSeconds < 0 {
		return errors.New("video.pause_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.ToolTimeout <= 0 {
		return errors.New("workflow.tool_timeout must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
