package tts

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
)

func TestSynthesizeValidatesArguments(t *testing.T) {
	cli := NewCLI()
	ctx := context.Background()
	if err := cli.Synthesize(ctx, "", "text_01.txt", "audio_01.wav"); err == nil {
		t.Fatal("expected error for empty work dir")
	}
	if err := cli.Synthesize(ctx, "/out", "", "audio_01.wav"); err == nil {
		t.Fatal("expected error for empty notes file")
	}
}

func TestSynthesizeBuildsCommand(t *testing.T) {
	var capturedName string
	var capturedArgs []string
	var capturedCmd *exec.Cmd
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		capturedName = name
		capturedArgs = append([]string(nil), args...)
		capturedCmd = exec.CommandContext(ctx, "true")
		return capturedCmd
	}
	t.Cleanup(func() { commandContext = original })

	workDir := t.TempDir()
	cli := NewCLI(WithBinary("mytts"))
	if err := cli.Synthesize(context.Background(), workDir, "text_03.txt", "audio_03.wav"); err != nil {
		t.Fatalf("Synthesize returned error: %v", err)
	}

	if capturedName != "mytts" {
		t.Fatalf("binary = %q", capturedName)
	}
	if strings.Join(capturedArgs, " ") != "-f text_03.txt -o audio_03.wav" {
		t.Fatalf("args = %v", capturedArgs)
	}
	if capturedCmd.Dir != workDir {
		t.Fatalf("work dir = %q, want %q", capturedCmd.Dir, workDir)
	}
	var utf8Forced bool
	for _, entry := range capturedCmd.Env {
		if entry == "PYTHONIOENCODING=utf-8" {
			utf8Forced = true
		}
	}
	if !utf8Forced {
		t.Fatalf("expected UTF-8 encoding forced in env, got %d entries", len(capturedCmd.Env))
	}
}

func TestSynthesizeSurfacesToolOutput(t *testing.T) {
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "sh", "-c", "echo 'voice model missing' >&2; exit 1")
	}
	t.Cleanup(func() { commandContext = original })

	err := NewCLI().Synthesize(context.Background(), t.TempDir(), "text_01.txt", "audio_01.wav")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "voice model missing") {
		t.Fatalf("expected tool output in error, got %q", err)
	}
}

func TestSynthesizeMissingBinary(t *testing.T) {
	if _, err := exec.LookPath("definitely-not-a-tts"); err == nil {
		t.Skip("unexpected binary present")
	}

	err := NewCLI(WithBinary("definitely-not-a-tts")).Synthesize(context.Background(), t.TempDir(), "text_01.txt", "audio_01.wav")
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	if !errors.Is(err, exec.ErrNotFound) {
		t.Fatalf("expected exec.ErrNotFound, got %v", err)
	}
}
