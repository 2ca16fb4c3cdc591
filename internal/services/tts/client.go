package tts

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

var commandContext = exec.CommandContext

// Synthesizer turns a notes file into a narration audio file. Both file
// names are relative to workDir, which is the tool's working directory.
type Synthesizer interface {
	Synthesize(ctx context.Context, workDir, notesFile, audioFile string) error
}

// Option configures the CLI synthesizer.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// CLI shells out to the configured synthesis tool, invoked from the output
// folder as:
//
//	tts -f <notesFile> -o <audioFile>
//
// The child environment forces UTF-8 text handling so notes with non-ASCII
// characters survive the hand-off.
type CLI struct {
	binary string
}

// NewCLI constructs a CLI synthesizer using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "csm-voice"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Synthesize produces audioFile from notesFile. A missing binary surfaces as
// exec.ErrNotFound, which callers treat as fatal for the whole stage.
func (c *CLI) Synthesize(ctx context.Context, workDir, notesFile, audioFile string) error {
	if workDir == "" {
		return errors.New("working directory required")
	}
	if notesFile == "" || audioFile == "" {
		return errors.New("notes and audio file names required")
	}

	cmd := commandContext(ctx, c.binary, "-f", notesFile, "-o", audioFile) //nolint:gosec
	cmd.Dir = workDir
	cmd.Env = append(os.Environ(), "PYTHONIOENCODING=utf-8", "LC_ALL=C.UTF-8")
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		detail := strings.TrimSpace(string(output))
		if detail != "" {
			return fmt.Errorf("synthesize %s: %w: %s", notesFile, err, detail)
		}
		return fmt.Errorf("synthesize %s: %w", notesFile, err)
	}
	return nil
}

var _ Synthesizer = (*CLI)(nil)
