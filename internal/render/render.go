// Package render exports each visible slide to its canonical PNG. Exports
// are gated on file freshness: a slide image strictly newer than the deck is
// left alone, so reruns after a deck edit only redo the slides ffmpeg and the
// renderer actually need.
package render

import (
	"context"
	"errors"
	"log/slog"

	"slidecast/internal/artifacts"
	"slidecast/internal/logging"
	"slidecast/internal/services"
	"slidecast/internal/services/slides"
	"slidecast/internal/stage"
)

const stageName = "render"

// Handler drives the slide renderer over the run's visible slides.
type Handler struct {
	renderer slides.Renderer
	logger   *slog.Logger
}

// NewHandler creates the render stage handler.
func NewHandler(renderer slides.Renderer, logger *slog.Logger) *Handler {
	return &Handler{
		renderer: renderer,
		logger:   logging.NewComponentLogger(logger, stageName),
	}
}

// Name identifies this stage.
func (h *Handler) Name() string { return stageName }

// Execute exports every visible slide whose image is stale or missing. A
// failed export is recorded against the slide and the stage moves on: one
// bad slide never blocks the rest of the deck.
func (h *Handler) Execute(ctx context.Context, run *stage.Run) error {
	for _, s := range run.Slides {
		slideCtx := services.WithSlide(ctx, s.Number)
		log := logging.WithContext(slideCtx, h.logger)

		imagePath := run.Store.Path(artifacts.KindImage, s.Number)
		if artifacts.FresherThan(imagePath, run.DeckPath) {
			log.Debug("slide image up-to-date")
			continue
		}

		callCtx, cancel := run.WithToolTimeout(slideCtx)
		err := h.renderer.Export(callCtx, run.DeckPath, s.SourceIndex, imagePath)
		cancel()
		if err != nil {
			// A hung renderer is fatal: it holds the deck open and every
			// later slide would hit the same wall.
			if errors.Is(err, context.DeadlineExceeded) {
				return services.Wrap(services.ErrTimeout, stageName, "export slide",
					"slide renderer timed out", err)
			}
			wrapped := services.Wrap(services.ErrExternalTool, stageName, "export slide",
				"slide renderer failed", err)
			run.RecordFailure(stageName, s.Number, wrapped)
			log.Error("slide export failed", logging.Error(wrapped))
			continue
		}

		if err := run.RecordArtifact(slideCtx, s.Number, artifacts.KindImage); err != nil {
			log.Debug("ledger update skipped", logging.Error(err))
		}
		log.Info("slide exported", logging.String("image", imagePath))
	}
	return nil
}
