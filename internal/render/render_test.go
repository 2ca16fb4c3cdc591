package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"slidecast/internal/artifacts"
	"slidecast/internal/deck"
	"slidecast/internal/logging"
	"slidecast/internal/stage"
	"slidecast/internal/testsupport"
)

type fakeRenderer struct {
	calls []int
	fail  map[int]error
}

func (f *fakeRenderer) Export(_ context.Context, _ string, sourceIndex int, outPath string) error {
	f.calls = append(f.calls, sourceIndex)
	if err := f.fail[sourceIndex]; err != nil {
		return err
	}
	return os.WriteFile(outPath, []byte("png"), 0o644)
}

func newRun(t *testing.T, slides ...deck.Slide) *stage.Run {
	t.Helper()
	dir := t.TempDir()
	deckPath := filepath.Join(dir, "talk.pptx")
	testsupport.WriteFile(t, deckPath, "deck")
	store := artifacts.NewStore(filepath.Join(dir, "talk"))
	if err := store.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs: %v", err)
	}
	return &stage.Run{
		RunID:     "run-1",
		DeckPath:  deckPath,
		OutputDir: store.Root(),
		Slides:    slides,
		Store:     store,
	}
}

func TestExecuteExportsEverySlide(t *testing.T) {
	run := newRun(t,
		deck.Slide{Number: 1, SourceIndex: 1},
		deck.Slide{Number: 2, SourceIndex: 3},
	)
	renderer := &fakeRenderer{}
	h := NewHandler(renderer, logging.NewNop())

	if err := h.Execute(context.Background(), run); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(renderer.calls) != 2 || renderer.calls[0] != 1 || renderer.calls[1] != 3 {
		t.Fatalf("expected exports for source indexes 1 and 3, got %v", renderer.calls)
	}
	for _, n := range []int{1, 2} {
		if !run.Store.Exists(artifacts.KindImage, n) {
			t.Fatalf("missing image for slide %d", n)
		}
	}
}

func TestExecuteSkipsFreshImages(t *testing.T) {
	run := newRun(t, deck.Slide{Number: 1, SourceIndex: 1})
	imagePath := run.Store.Path(artifacts.KindImage, 1)
	testsupport.WriteFile(t, imagePath, "png")
	testsupport.Touch(t, run.DeckPath, time.Now().Add(-time.Hour))
	testsupport.Touch(t, imagePath, time.Now())

	renderer := &fakeRenderer{}
	h := NewHandler(renderer, logging.NewNop())
	if err := h.Execute(context.Background(), run); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(renderer.calls) != 0 {
		t.Fatalf("expected no exports for fresh image, got %v", renderer.calls)
	}
}

func TestExecuteReexportsAfterDeckEdit(t *testing.T) {
	run := newRun(t, deck.Slide{Number: 1, SourceIndex: 1})
	imagePath := run.Store.Path(artifacts.KindImage, 1)
	testsupport.WriteFile(t, imagePath, "png")
	testsupport.Touch(t, imagePath, time.Now().Add(-time.Hour))
	testsupport.Touch(t, run.DeckPath, time.Now())

	renderer := &fakeRenderer{}
	h := NewHandler(renderer, logging.NewNop())
	if err := h.Execute(context.Background(), run); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(renderer.calls) != 1 {
		t.Fatalf("expected a re-export for stale image, got %v", renderer.calls)
	}
}

func TestExecuteRecordsFailureAndContinues(t *testing.T) {
	run := newRun(t,
		deck.Slide{Number: 1, SourceIndex: 1},
		deck.Slide{Number: 2, SourceIndex: 2},
	)
	renderer := &fakeRenderer{fail: map[int]error{1: errors.New("renderer crashed")}}
	h := NewHandler(renderer, logging.NewNop())

	if err := h.Execute(context.Background(), run); err != nil {
		t.Fatalf("Execute should not fail the run: %v", err)
	}
	failures := run.Failures("render")
	if len(failures) != 1 {
		t.Fatalf("expected one recorded failure, got %v", failures)
	}
	if _, ok := failures[1]; !ok {
		t.Fatalf("expected failure for slide 1, got %v", failures)
	}
	if !run.Store.Exists(artifacts.KindImage, 2) {
		t.Fatal("slide 2 should still have been exported")
	}
	if got := fmt.Sprint(failures[1]); got == "" {
		t.Fatal("failure should carry a message")
	}
}
