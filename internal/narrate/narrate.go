// Package narrate turns notes files into narration audio via the
// text-to-speech tool. Audio is regenerated only when its notes file is
// newer, which is what makes editing a single slide's notes cheap.
package narrate

import (
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"path/filepath"

	"slidecast/internal/artifacts"
	"slidecast/internal/logging"
	"slidecast/internal/services"
	"slidecast/internal/services/tts"
	"slidecast/internal/stage"
)

const stageName = "synthesize"

// Handler drives the text-to-speech tool over the run's notes files.
type Handler struct {
	synth  tts.Synthesizer
	logger *slog.Logger
}

// NewHandler creates the synthesis stage handler.
func NewHandler(synth tts.Synthesizer, logger *slog.Logger) *Handler {
	return &Handler{
		synth:  synth,
		logger: logging.NewComponentLogger(logger, stageName),
	}
}

// Name identifies this stage.
func (h *Handler) Name() string { return stageName }

// Execute synthesizes narration for every slide whose notes file is newer
// than its audio. A missing tool binary aborts the run: no later slide could
// succeed either. Everything else is a per-slide failure.
func (h *Handler) Execute(ctx context.Context, run *stage.Run) error {
	for _, s := range run.Slides {
		slideCtx := services.WithSlide(ctx, s.Number)
		log := logging.WithContext(slideCtx, h.logger)

		notesPath := run.Store.Path(artifacts.KindNotes, s.Number)
		if !run.Store.Exists(artifacts.KindNotes, s.Number) {
			log.Debug("no notes file, skipping synthesis")
			continue
		}

		audioPath := run.Store.Path(artifacts.KindAudio, s.Number)
		if artifacts.FresherThan(audioPath, notesPath) {
			log.Debug("narration up-to-date")
			continue
		}

		callCtx, cancel := run.WithToolTimeout(slideCtx)
		err := h.synth.Synthesize(callCtx, run.OutputDir,
			filepath.Base(notesPath), filepath.Base(audioPath))
		cancel()
		if err != nil {
			if errors.Is(err, exec.ErrNotFound) {
				return services.Wrap(services.ErrNotFound, stageName, "invoke tts",
					"text-to-speech binary not found", err)
			}
			wrapped := services.Wrap(services.ErrExternalTool, stageName, "synthesize narration",
				"text-to-speech failed", err)
			run.RecordFailure(stageName, s.Number, wrapped)
			log.Error("narration synthesis failed", logging.Error(wrapped))
			continue
		}

		if err := run.RecordArtifact(slideCtx, s.Number, artifacts.KindAudio); err != nil {
			log.Debug("ledger update skipped", logging.Error(err))
		}
		log.Info("narration synthesized", logging.String("audio", audioPath))
	}
	return nil
}
