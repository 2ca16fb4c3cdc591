// Package workflow sequences the pipeline stages over a single run. The
// manager owns the deck's lifecycle and the stage order; everything a stage
// needs travels on the shared run value.
package workflow

import (
	"context"
	"log/slog"

	"slidecast/internal/deck"
	"slidecast/internal/logging"
	"slidecast/internal/services"
	"slidecast/internal/stage"
)

// Handlers holds the stage handlers in execution order.
type Handlers struct {
	Render      stage.Handler
	Notes       stage.Handler
	Synthesize  stage.Handler
	Compose     stage.Handler
	Concatenate stage.Handler
}

// Manager runs the fixed stage sequence for one deck.
type Manager struct {
	logger   *slog.Logger
	handlers Handlers
	openDeck func(string) (deck.Reader, error)
}

// Option customizes a Manager.
type Option func(*Manager)

// WithDeckOpener overrides how the manager opens decks. Tests use this to
// substitute in-memory readers.
func WithDeckOpener(open func(string) (deck.Reader, error)) Option {
	return func(m *Manager) { m.openDeck = open }
}

// NewManager creates a workflow manager with the given stage handlers.
func NewManager(logger *slog.Logger, handlers Handlers, opts ...Option) *Manager {
	m := &Manager{
		logger:   logging.NewComponentLogger(logger, "workflow"),
		handlers: handlers,
		openDeck: deck.Open,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Execute runs the stages in order. A returned error means the run failed
// outright; per-slide losses are recorded on the run and leave the error nil.
func (m *Manager) Execute(ctx context.Context, run *stage.Run) error {
	ctx = services.WithRunID(ctx, run.RunID)
	log := logging.WithContext(ctx, m.logger)

	run.State = stage.StateRender
	reader, err := m.openDeck(run.DeckPath)
	if err != nil {
		run.State = stage.StateFailed
		return services.Wrap(services.ErrInput, string(stage.StateRender), "open deck",
			"presentation could not be opened", err)
	}
	defer reader.Close()
	run.Deck = reader
	run.Slides = deck.VisibleSlides(reader)

	if hidden := reader.SlideCount() - len(run.Slides); hidden > 0 {
		log.Info("hidden slides skipped", logging.Int("hidden", hidden))
	}
	log.Info("run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.String("deck", run.DeckPath),
		logging.String("output_dir", run.OutputDir),
		logging.Int("slides", len(run.Slides)))

	steps := []struct {
		state   stage.State
		handler stage.Handler
	}{
		{stage.StateRender, m.handlers.Render},
		{stage.StateNotes, m.handlers.Notes},
		{stage.StateSynthesize, m.handlers.Synthesize},
		{stage.StateCompose, m.handlers.Compose},
		{stage.StateConcatenate, m.handlers.Concatenate},
	}
	for _, step := range steps {
		run.State = step.state
		if err := m.runStage(ctx, step.handler, run); err != nil {
			run.State = stage.StateFailed
			return err
		}
	}

	run.State = stage.StateDone
	m.logSummary(log, run)
	return nil
}

func (m *Manager) runStage(ctx context.Context, handler stage.Handler, run *stage.Run) error {
	stageCtx := services.WithStage(ctx, handler.Name())
	log := logging.WithContext(stageCtx, m.logger)

	log.Info("stage started", logging.String(logging.FieldEventType, "stage_start"))
	if err := handler.Execute(stageCtx, run); err != nil {
		log.Error("stage failed",
			logging.String(logging.FieldEventType, "stage_failure"),
			logging.Error(err))
		return err
	}
	log.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Int("slide_failures", len(run.Failures(handler.Name()))))
	return nil
}

// logSummary reports per-slide losses after a run completes. Partial loss
// still exits successfully; the warning is the operator's cue to rerun after
// fixing the offending slides.
func (m *Manager) logSummary(log *slog.Logger, run *stage.Run) {
	if run.FailureCount() == 0 {
		log.Info("run completed",
			logging.String(logging.FieldEventType, "run_complete"),
			logging.String("video", run.FinalVideo))
		return
	}
	for _, name := range run.FailedStages() {
		for number, err := range run.Failures(name) {
			log.Warn("slide lost",
				logging.String("stage", name),
				logging.Int(logging.FieldSlide, number),
				logging.Error(err))
		}
	}
	log.Warn("run completed with slide failures",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.String("video", run.FinalVideo),
		logging.Int("slide_failures", run.FailureCount()))
}
