package media

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

var commandContext = exec.CommandContext

// EncodingConfig is the fixed encoding configuration shared by all clips.
type EncodingConfig struct {
	FPS        int
	Codec      string
	AudioCodec string
	Preset     string
	Bitrate    string
}

// Encoder composes per-slide clips and concatenates them. The interface
// exists so pipeline tests can run with a fake instead of real FFmpeg.
type Encoder interface {
	AudioDuration(ctx context.Context, audioPath string) (time.Duration, error)
	ComposeClip(ctx context.Context, imagePath, audioPath, clipPath string, pause time.Duration, cfg EncodingConfig) error
	Concat(ctx context.Context, manifestPath, outPath string) error
}

// FFmpeg invokes the ffmpeg and ffprobe binaries.
type FFmpeg struct {
	binary      string
	probeBinary string
}

// New constructs an FFmpeg encoder. Empty names fall back to the standard
// binaries.
func New(binary, probeBinary string) *FFmpeg {
	if binary == "" {
		binary = "ffmpeg"
	}
	if probeBinary == "" {
		probeBinary = "ffprobe"
	}
	return &FFmpeg{binary: binary, probeBinary: probeBinary}
}

// AudioDuration probes the audio file's duration.
func (f *FFmpeg) AudioDuration(ctx context.Context, audioPath string) (time.Duration, error) {
	if audioPath == "" {
		return 0, errors.New("audio path required")
	}
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		audioPath,
	}
	cmd := commandContext(ctx, f.probeBinary, args...) //nolint:gosec
	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, fmt.Errorf("probe %s: %w", audioPath, err)
	}
	seconds, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("probe %s: parse duration %q: %w", audioPath, strings.TrimSpace(string(output)), err)
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

// ComposeClip renders a single-slide clip: the image held static for the
// whole duration, the narration delayed by pause, total duration = audio
// duration + pause.
func (f *FFmpeg) ComposeClip(ctx context.Context, imagePath, audioPath, clipPath string, pause time.Duration, cfg EncodingConfig) error {
	if imagePath == "" || audioPath == "" || clipPath == "" {
		return errors.New("image, audio, and clip paths required")
	}

	audioDuration, err := f.AudioDuration(ctx, audioPath)
	if err != nil {
		return err
	}
	total := audioDuration + pause

	args := []string{
		"-y",
		"-loop", "1",
		"-framerate", strconv.Itoa(cfg.FPS),
		"-i", imagePath,
		"-i", audioPath,
		"-af", fmt.Sprintf("adelay=%d:all=1", pause.Milliseconds()),
		"-c:v", cfg.Codec,
		"-preset", cfg.Preset,
		"-b:v", cfg.Bitrate,
		"-c:a", cfg.AudioCodec,
		"-pix_fmt", "yuv420p",
		"-t", formatSeconds(total),
		clipPath,
	}
	cmd := commandContext(ctx, f.binary, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("compose clip %s: %w: %s", clipPath, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// Concat joins the clips listed in the manifest into outPath by stream copy.
// The tool's diagnostic output is surfaced verbatim on failure.
func (f *FFmpeg) Concat(ctx context.Context, manifestPath, outPath string) error {
	if manifestPath == "" || outPath == "" {
		return errors.New("manifest and output paths required")
	}
	args := []string{
		"-f", "concat",
		"-safe", "0",
		"-i", manifestPath,
		"-c", "copy",
		outPath,
		"-y",
	}
	cmd := commandContext(ctx, f.binary, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("concatenate clips: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}

var _ Encoder = (*FFmpeg)(nil)
