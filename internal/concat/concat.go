// Package concat stitches the per-slide clips into the final deck video.
// Clips are joined in slide order by stream copy; gaps from excluded slides
// simply close up.
package concat

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"slidecast/internal/artifacts"
	"slidecast/internal/fileutil"
	"slidecast/internal/logging"
	"slidecast/internal/media"
	"slidecast/internal/services"
	"slidecast/internal/stage"
)

const stageName = "concatenate"

// Handler joins the surviving clips into the final video.
type Handler struct {
	encoder media.Encoder
	logger  *slog.Logger
}

// NewHandler creates the concatenation stage handler.
func NewHandler(encoder media.Encoder, logger *slog.Logger) *Handler {
	return &Handler{
		encoder: encoder,
		logger:  logging.NewComponentLogger(logger, stageName),
	}
}

// Name identifies this stage.
func (h *Handler) Name() string { return stageName }

// Execute writes the concat manifest, joins the clips, and removes the
// manifest afterwards. Any failure here is fatal: a run that cannot produce
// its final video has nothing to show for itself.
func (h *Handler) Execute(ctx context.Context, run *stage.Run) error {
	var clips []string
	for _, s := range run.Slides {
		if run.Store.Exists(artifacts.KindClip, s.Number) {
			clips = append(clips, run.Store.Path(artifacts.KindClip, s.Number))
		}
	}
	if len(clips) == 0 {
		return services.Wrap(services.ErrInput, stageName, "collect clips",
			"no clips to concatenate", nil)
	}
	if len(clips) < len(run.Slides) {
		h.logger.Warn("joining partial clip set",
			logging.Int("clips", len(clips)),
			logging.Int("slides", len(run.Slides)))
	}

	var manifest strings.Builder
	for _, clip := range clips {
		fmt.Fprintf(&manifest, "file '%s'\n", clip)
	}
	manifestPath := run.Store.ManifestPath()
	if err := fileutil.WriteFileAtomic(manifestPath, []byte(manifest.String()), 0o644); err != nil {
		return services.Wrap(services.ErrInput, stageName, "write manifest",
			"concat manifest write failed", err)
	}
	defer os.Remove(manifestPath)

	videoPath := run.Store.VideoPath()
	callCtx, cancel := run.WithToolTimeout(ctx)
	defer cancel()
	if err := h.encoder.Concat(callCtx, manifestPath, videoPath); err != nil {
		return services.Wrap(services.ErrExternalTool, stageName, "join clips",
			"final video concatenation failed", err)
	}

	run.FinalVideo = videoPath
	h.logger.Info("final video written",
		logging.String("video", videoPath),
		logging.Int("clips", len(clips)))
	return nil
}
