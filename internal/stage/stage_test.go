package stage

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRecordFailureAccumulates(t *testing.T) {
	run := &Run{}
	run.RecordFailure("render", 2, errors.New("boom"))
	run.RecordFailure("render", 5, errors.New("boom again"))
	run.RecordFailure("compose", 2, errors.New("other"))

	if got := run.FailureCount(); got != 3 {
		t.Fatalf("expected 3 failures, got %d", got)
	}
	if got := run.Failures("render"); len(got) != 2 {
		t.Fatalf("expected 2 render failures, got %v", got)
	}
	stages := run.FailedStages()
	if len(stages) != 2 || stages[0] != "compose" || stages[1] != "render" {
		t.Fatalf("expected sorted failed stages, got %v", stages)
	}
	if run.Failures("notes") != nil {
		t.Fatal("stages without failures should report nil")
	}
}

func TestWithToolTimeout(t *testing.T) {
	run := &Run{ToolTimeout: time.Minute}
	ctx, cancel := run.WithToolTimeout(context.Background())
	defer cancel()
	if _, ok := ctx.Deadline(); !ok {
		t.Fatal("expected a deadline when a timeout is configured")
	}

	run = &Run{}
	ctx, cancel = run.WithToolTimeout(context.Background())
	defer cancel()
	if _, ok := ctx.Deadline(); ok {
		t.Fatal("expected no deadline when timeout is zero")
	}
}
