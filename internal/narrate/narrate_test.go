package narrate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"slidecast/internal/artifacts"
	"slidecast/internal/deck"
	"slidecast/internal/logging"
	"slidecast/internal/services"
	"slidecast/internal/stage"
	"slidecast/internal/testsupport"
)

type fakeSynthesizer struct {
	calls []string
	err   error
}

func (f *fakeSynthesizer) Synthesize(_ context.Context, workDir, notesFile, audioFile string) error {
	f.calls = append(f.calls, notesFile)
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(filepath.Join(workDir, audioFile), []byte("wav"), 0o644)
}

func newRun(t *testing.T, slides ...deck.Slide) *stage.Run {
	t.Helper()
	store := artifacts.NewStore(filepath.Join(t.TempDir(), "talk"))
	if err := store.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs: %v", err)
	}
	return &stage.Run{
		RunID:     "run-1",
		OutputDir: store.Root(),
		Slides:    slides,
		Store:     store,
	}
}

func TestExecuteSynthesizesStaleAudio(t *testing.T) {
	run := newRun(t, deck.Slide{Number: 1, SourceIndex: 1})
	testsupport.WriteFile(t, run.Store.Path(artifacts.KindNotes, 1), "Hello.")

	synth := &fakeSynthesizer{}
	h := NewHandler(synth, logging.NewNop())
	if err := h.Execute(context.Background(), run); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(synth.calls) != 1 || synth.calls[0] != "text_01.txt" {
		t.Fatalf("expected one synthesis of text_01.txt, got %v", synth.calls)
	}
	if !run.Store.Exists(artifacts.KindAudio, 1) {
		t.Fatal("expected audio artifact")
	}
}

func TestExecuteSkipsFreshAudio(t *testing.T) {
	run := newRun(t, deck.Slide{Number: 1, SourceIndex: 1})
	notesPath := run.Store.Path(artifacts.KindNotes, 1)
	audioPath := run.Store.Path(artifacts.KindAudio, 1)
	testsupport.WriteFile(t, notesPath, "Hello.")
	testsupport.WriteFile(t, audioPath, "wav")
	testsupport.Touch(t, notesPath, time.Now().Add(-time.Hour))
	testsupport.Touch(t, audioPath, time.Now())

	synth := &fakeSynthesizer{}
	h := NewHandler(synth, logging.NewNop())
	if err := h.Execute(context.Background(), run); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(synth.calls) != 0 {
		t.Fatalf("expected no synthesis for fresh audio, got %v", synth.calls)
	}
}

func TestExecuteResynthesizesEditedNotes(t *testing.T) {
	run := newRun(t, deck.Slide{Number: 1, SourceIndex: 1})
	notesPath := run.Store.Path(artifacts.KindNotes, 1)
	audioPath := run.Store.Path(artifacts.KindAudio, 1)
	testsupport.WriteFile(t, notesPath, "Hello again.")
	testsupport.WriteFile(t, audioPath, "wav")
	testsupport.Touch(t, audioPath, time.Now().Add(-time.Hour))
	testsupport.Touch(t, notesPath, time.Now())

	synth := &fakeSynthesizer{}
	h := NewHandler(synth, logging.NewNop())
	if err := h.Execute(context.Background(), run); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(synth.calls) != 1 {
		t.Fatalf("expected re-synthesis of edited notes, got %v", synth.calls)
	}
}

func TestExecuteSkipsSlidesWithoutNotesFile(t *testing.T) {
	run := newRun(t, deck.Slide{Number: 1, SourceIndex: 1})

	synth := &fakeSynthesizer{}
	h := NewHandler(synth, logging.NewNop())
	if err := h.Execute(context.Background(), run); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(synth.calls) != 0 {
		t.Fatalf("expected no synthesis without a notes file, got %v", synth.calls)
	}
}

func TestExecuteMissingBinaryIsFatal(t *testing.T) {
	run := newRun(t,
		deck.Slide{Number: 1, SourceIndex: 1},
		deck.Slide{Number: 2, SourceIndex: 2},
	)
	testsupport.WriteFile(t, run.Store.Path(artifacts.KindNotes, 1), "Hello.")
	testsupport.WriteFile(t, run.Store.Path(artifacts.KindNotes, 2), "World.")

	synth := &fakeSynthesizer{err: fmt.Errorf("start tts: %w", exec.ErrNotFound)}
	h := NewHandler(synth, logging.NewNop())
	err := h.Execute(context.Background(), run)
	if err == nil {
		t.Fatal("expected fatal error for missing binary")
	}
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound marker, got %v", err)
	}
	if len(synth.calls) != 1 {
		t.Fatalf("expected abort after first missing-binary failure, got %v", synth.calls)
	}
}

func TestExecuteToolFailureIsPerSlide(t *testing.T) {
	run := newRun(t,
		deck.Slide{Number: 1, SourceIndex: 1},
		deck.Slide{Number: 2, SourceIndex: 2},
	)
	testsupport.WriteFile(t, run.Store.Path(artifacts.KindNotes, 1), "Hello.")
	testsupport.WriteFile(t, run.Store.Path(artifacts.KindNotes, 2), "World.")

	synth := &fakeSynthesizer{err: errors.New("voice model rejected input")}
	h := NewHandler(synth, logging.NewNop())
	if err := h.Execute(context.Background(), run); err != nil {
		t.Fatalf("Execute should not fail the run: %v", err)
	}
	if len(run.Failures("synthesize")) != 2 {
		t.Fatalf("expected both slides recorded as failed, got %v", run.Failures("synthesize"))
	}
	if len(synth.calls) != 2 {
		t.Fatalf("expected synthesis attempted for both slides, got %v", synth.calls)
	}
}
