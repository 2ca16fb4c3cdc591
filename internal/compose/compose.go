// Package compose pairs each slide image with its narration audio and
// encodes a per-slide video clip. A slide missing either input is excluded
// from the clip set rather than failing the run.
package compose

import (
	"context"
	"log/slog"

	"slidecast/internal/artifacts"
	"slidecast/internal/logging"
	"slidecast/internal/media"
	"slidecast/internal/services"
	"slidecast/internal/stage"
)

const stageName = "compose"

// Handler encodes per-slide clips with the media encoder.
type Handler struct {
	encoder media.Encoder
	logger  *slog.Logger
}

// NewHandler creates the compose stage handler.
func NewHandler(encoder media.Encoder, logger *slog.Logger) *Handler {
	return &Handler{
		encoder: encoder,
		logger:  logging.NewComponentLogger(logger, stageName),
	}
}

// Name identifies this stage.
func (h *Handler) Name() string { return stageName }

// Execute encodes a clip for every slide that has both an image and an
// audio artifact. A clip strictly newer than both inputs is kept as is.
func (h *Handler) Execute(ctx context.Context, run *stage.Run) error {
	for _, s := range run.Slides {
		slideCtx := services.WithSlide(ctx, s.Number)
		log := logging.WithContext(slideCtx, h.logger)

		if !run.Store.Exists(artifacts.KindImage, s.Number) || !run.Store.Exists(artifacts.KindAudio, s.Number) {
			log.Warn("missing image or audio, slide excluded from final video")
			continue
		}

		imagePath := run.Store.Path(artifacts.KindImage, s.Number)
		audioPath := run.Store.Path(artifacts.KindAudio, s.Number)
		clipPath := run.Store.Path(artifacts.KindClip, s.Number)
		if artifacts.FresherThan(clipPath, imagePath, audioPath) {
			log.Debug("clip up-to-date")
			continue
		}

		callCtx, cancel := run.WithToolTimeout(slideCtx)
		err := h.encoder.ComposeClip(callCtx, imagePath, audioPath, clipPath, run.Pause, run.Encoding)
		cancel()
		if err != nil {
			wrapped := services.Wrap(services.ErrExternalTool, stageName, "compose clip",
				"clip encoding failed", err)
			run.RecordFailure(stageName, s.Number, wrapped)
			log.Error("clip encoding failed", logging.Error(wrapped))
			continue
		}

		if err := run.RecordArtifact(slideCtx, s.Number, artifacts.KindClip); err != nil {
			log.Debug("ledger update skipped", logging.Error(err))
		}
		log.Info("clip composed", logging.String("clip", clipPath))
	}
	return nil
}
