// Package stage defines the contract between the workflow orchestrator and
// the per-stage handlers, plus the Run state they share.
package stage

import (
	"context"
	"sort"
	"time"

	"slidecast/internal/artifacts"
	"slidecast/internal/deck"
	"slidecast/internal/ledger"
	"slidecast/internal/media"
)

// Handler is one pipeline stage. Execute fans out over the run's slides; a
// returned error is fatal to the whole run, per-slide problems are recorded
// on the Run instead.
type Handler interface {
	Name() string
	Execute(ctx context.Context, run *Run) error
}

// State tracks the orchestrator's position in the fixed stage sequence.
type State string

const (
	StateInit        State = "init"
	StateRender      State = "render"
	StateNotes       State = "notes"
	StateSynthesize  State = "synthesize"
	StateCompose     State = "compose"
	StateConcatenate State = "concatenate"
	StateDone        State = "done"
	StateFailed      State = "failed"
)

// Run carries one pipeline invocation's inputs, policy constants, and
// accumulated results. It is created per run and never persisted.
type Run struct {
	RunID     string
	DeckPath  string
	OutputDir string

	// Deck is opened by the orchestrator during the render transition and
	// stays available through the notes stage.
	Deck   deck.Reader
	Slides []deck.Slide

	Store  *artifacts.Store
	Ledger *ledger.Store // nil when disabled

	Pause       time.Duration
	Encoding    media.EncodingConfig
	ToolTimeout time.Duration

	State      State
	FinalVideo string

	failures map[string]map[int]error
}

// RecordFailure notes a per-slide failure for a stage. The run continues;
// the slide is simply absent from downstream artifacts.
func (r *Run) RecordFailure(stage string, slide int, err error) {
	if r.failures == nil {
		r.failures = make(map[string]map[int]error)
	}
	if r.failures[stage] == nil {
		r.failures[stage] = make(map[int]error)
	}
	r.failures[stage][slide] = err
}

// Failures returns the per-slide failures recorded for a stage, keyed by
// visible slide number.
func (r *Run) Failures(stage string) map[int]error {
	return r.failures[stage]
}

// FailureCount reports the total number of per-slide failures across stages.
func (r *Run) FailureCount() int {
	total := 0
	for _, slides := range r.failures {
		total += len(slides)
	}
	return total
}

// FailedStages lists the stages that recorded at least one per-slide
// failure, in sorted order.
func (r *Run) FailedStages() []string {
	stages := make([]string, 0, len(r.failures))
	for name, slides := range r.failures {
		if len(slides) > 0 {
			stages = append(stages, name)
		}
	}
	sort.Strings(stages)
	return stages
}

// RecordArtifact updates the dependency ledger for a freshly produced
// artifact. Best effort: callers log the returned error and move on.
func (r *Run) RecordArtifact(ctx context.Context, slide int, kind artifacts.Kind) error {
	if r.Ledger == nil {
		return nil
	}
	return r.Ledger.Record(ctx, slide, string(kind), r.Store.Path(kind, slide))
}

// WithToolTimeout bounds an external tool invocation when the run carries a
// timeout; otherwise the context passes through unchanged.
func (r *Run) WithToolTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.ToolTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.ToolTimeout)
}
