package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Tools names the external binaries the pipeline invokes.
type Tools struct {
	// Renderer exports one slide to a PNG. Invoked as:
	//   renderer -s <sourceIndex> -o <pngPath> <deckPath>
	Renderer string `toml:"renderer"`
	// TTS synthesizes one notes file to a WAV. Invoked from the output
	// folder as:
	//   tts -f <notesFile> -o <audioFile>
	TTS     string `toml:"tts"`
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
}

// Video holds the fixed encoding configuration shared by every clip. Using
// one configuration for all clips is what makes the final stream-copy
// concatenation possible.
type Video struct {
	FPS          int     `toml:"fps"`
	Codec        string  `toml:"codec"`
	AudioCodec   string  `toml:"audio_codec"`
	Preset       string  `toml:"preset"`
	Bitrate      string  `toml:"bitrate"`
	PauseSeconds float64 `toml:"pause_seconds"`
}

// Workflow contains run timing knobs.
type Workflow struct {
	// ToolTimeout bounds each external tool invocation, in seconds.
	ToolTimeout int `toml:"tool_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Ledger contains configuration for the per-deck dependency ledger.
type Ledger struct {
	Enabled bool `toml:"enabled"`
}

// Config encapsulates all configuration values for slidecast.
type Config struct {
	Tools    Tools    `toml:"tools"`
	Video    Video    `toml:"video"`
	Workflow Workflow `toml:"workflow"`
	Logging  Logging  `toml:"logging"`
	Ledger   Ledger   `toml:"ledger"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/slidecast/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all fields normalized. The boolean reports whether a file was
// actually found; defaults are used otherwise.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

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

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("slidecast.toml")
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

// Pause returns the leading silence duration for each clip.
func (c *Config) Pause() time.Duration {
	return time.Duration(c.Video.PauseSeconds * float64(time.Second))
}

// ToolTimeout returns the bounded timeout applied to each external tool
// invocation.
func (c *Config) ToolTimeout() time.Duration {
	return time.Duration(c.Workflow.ToolTimeout) * time.Second
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
