// Package notes extracts speaker notes into per-slide text files. The write
// is skipped when the extracted text matches the file on disk byte for byte,
// which preserves the file's timestamp and keeps downstream freshness gates
// from re-synthesizing unchanged narration.
package notes

import (
	"context"
	"log/slog"

	"slidecast/internal/artifacts"
	"slidecast/internal/fileutil"
	"slidecast/internal/logging"
	"slidecast/internal/services"
	"slidecast/internal/stage"
)

const stageName = "notes"

// Handler extracts speaker notes from the open deck.
type Handler struct {
	logger *slog.Logger
}

// NewHandler creates the notes stage handler.
func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logging.NewComponentLogger(logger, stageName)}
}

// Name identifies this stage.
func (h *Handler) Name() string { return stageName }

// Execute writes one notes file per visible slide. Slides without speaker
// notes get an empty file so every slide carries a complete artifact set. An
// extraction failure leaves any existing file untouched and is recorded
// against the slide.
func (h *Handler) Execute(ctx context.Context, run *stage.Run) error {
	for _, s := range run.Slides {
		slideCtx := services.WithSlide(ctx, s.Number)
		log := logging.WithContext(slideCtx, h.logger)

		text, err := run.Deck.Notes(s.SourceIndex)
		if err != nil {
			wrapped := services.Wrap(services.ErrInput, stageName, "extract notes",
				"notes extraction failed", err)
			run.RecordFailure(stageName, s.Number, wrapped)
			log.Error("notes extraction failed", logging.Error(wrapped))
			continue
		}

		notesPath := run.Store.Path(artifacts.KindNotes, s.Number)
		equal, err := fileutil.ContentEqual(notesPath, []byte(text))
		if err != nil {
			wrapped := services.Wrap(services.ErrInput, stageName, "compare notes",
				"existing notes file unreadable", err)
			run.RecordFailure(stageName, s.Number, wrapped)
			log.Error("notes comparison failed", logging.Error(wrapped))
			continue
		}
		if equal {
			log.Debug("notes unchanged, keeping timestamp")
			continue
		}

		if err := fileutil.WriteFileAtomic(notesPath, []byte(text), 0o644); err != nil {
			wrapped := services.Wrap(services.ErrInput, stageName, "write notes",
				"notes file write failed", err)
			run.RecordFailure(stageName, s.Number, wrapped)
			log.Error("notes write failed", logging.Error(wrapped))
			continue
		}

		if err := run.RecordArtifact(slideCtx, s.Number, artifacts.KindNotes); err != nil {
			log.Debug("ledger update skipped", logging.Error(err))
		}
		log.Info("notes written", logging.Int("bytes", len(text)))
	}
	return nil
}
