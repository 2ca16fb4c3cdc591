package slides

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
)

func TestNewCLIWithBinary(t *testing.T) {
	cli := NewCLI(WithBinary("/opt/deck2png"))
	if cli.binary != "/opt/deck2png" {
		t.Fatalf("expected binary override to be applied, got %q", cli.binary)
	}
}

func TestExportValidatesArguments(t *testing.T) {
	cli := NewCLI()
	ctx := context.Background()
	if err := cli.Export(ctx, "", 1, "/tmp/out.png"); err == nil {
		t.Fatal("expected error for empty deck path")
	}
	if err := cli.Export(ctx, "/talk.pptx", 0, "/tmp/out.png"); err == nil {
		t.Fatal("expected error for non-positive index")
	}
	if err := cli.Export(ctx, "/talk.pptx", 1, ""); err == nil {
		t.Fatal("expected error for empty output path")
	}
}

func TestExportBuildsCommand(t *testing.T) {
	var capturedName string
	var capturedArgs []string
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		capturedName = name
		capturedArgs = append([]string(nil), args...)
		return exec.CommandContext(ctx, "true")
	}
	t.Cleanup(func() { commandContext = original })

	cli := NewCLI(WithBinary("deck2png"))
	if err := cli.Export(context.Background(), "/talks/talk.pptx", 3, "/out/slide_02.png"); err != nil {
		t.Fatalf("Export returned error: %v", err)
	}

	if capturedName != "deck2png" {
		t.Fatalf("binary = %q", capturedName)
	}
	want := []string{"-s", "3", "-o", "/out/slide_02.png", "/talks/talk.pptx"}
	if strings.Join(capturedArgs, " ") != strings.Join(want, " ") {
		t.Fatalf("args = %v, want %v", capturedArgs, want)
	}
}

func TestExportSurfacesToolOutput(t *testing.T) {
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "sh", "-c", "echo 'render boom' >&2; exit 3")
	}
	t.Cleanup(func() { commandContext = original })

	err := NewCLI().Export(context.Background(), "/talk.pptx", 2, "/out/slide_01.png")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "render boom") {
		t.Fatalf("expected tool output in error, got %q", err)
	}
}

func TestExportMissingBinary(t *testing.T) {
	if _, err := exec.LookPath("definitely-not-a-renderer"); err == nil {
		t.Skip("unexpected binary present")
	}

	err := NewCLI(WithBinary("definitely-not-a-renderer")).Export(context.Background(), "/talk.pptx", 1, "/out.png")
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	if !errors.Is(err, exec.ErrNotFound) {
		t.Fatalf("expected exec.ErrNotFound, got %v", err)
	}
}
