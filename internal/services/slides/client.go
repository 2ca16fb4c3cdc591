package slides

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

var commandContext = exec.CommandContext

// Renderer exports one slide of a deck to a PNG file at outPath. The slide is
// addressed by its 1-based position in the deck, hidden slides included.
type Renderer interface {
	Export(ctx context.Context, deckPath string, sourceIndex int, outPath string) error
}

// Option configures the CLI renderer.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// CLI shells out to the configured rendering tool, invoked as:
//
//	renderer -s <sourceIndex> -o <pngPath> <deckPath>
type CLI struct {
	binary string
}

// NewCLI constructs a CLI renderer using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "deck2png"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Export renders a single slide to outPath.
func (c *CLI) Export(ctx context.Context, deckPath string, sourceIndex int, outPath string) error {
	if deckPath == "" {
		return errors.New("deck path required")
	}
	if sourceIndex < 1 {
		return fmt.Errorf("slide index must be positive, got %d", sourceIndex)
	}
	if outPath == "" {
		return errors.New("output path required")
	}

	args := []string{"-s", strconv.Itoa(sourceIndex), "-o", outPath, deckPath}
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		detail := strings.TrimSpace(string(output))
		if detail != "" {
			return fmt.Errorf("render slide %d: %w: %s", sourceIndex, err, detail)
		}
		return fmt.Errorf("render slide %d: %w", sourceIndex, err)
	}
	return nil
}

var _ Renderer = (*CLI)(nil)
