package media

import (
	"context"
	"os/exec"
	"strings"
	"testing"
	"time"
)

func fakeCommand(t *testing.T, script string, captured *[][]string) {
	t.Helper()
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		if captured != nil {
			*captured = append(*captured, append([]string{name}, args...))
		}
		return exec.CommandContext(ctx, "sh", "-c", script)
	}
	t.Cleanup(func() { commandContext = original })
}

func TestAudioDurationParsesProbeOutput(t *testing.T) {
	fakeCommand(t, "echo 12.480000", nil)

	d, err := New("", "").AudioDuration(context.Background(), "audio_01.wav")
	if err != nil {
		t.Fatalf("AudioDuration: %v", err)
	}
	if d != time.Duration(12.48*float64(time.Second)) {
		t.Fatalf("duration = %v", d)
	}
}

func TestAudioDurationRejectsGarbage(t *testing.T) {
	fakeCommand(t, "echo not-a-number", nil)

	if _, err := New("", "").AudioDuration(context.Background(), "audio_01.wav"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestComposeClipBuildsDurationFromProbe(t *testing.T) {
	var calls [][]string
	fakeCommand(t, "echo 3.5", &calls)

	cfg := EncodingConfig{FPS: 24, Codec: "libx264", AudioCodec: "aac", Preset: "ultrafast", Bitrate: "1000k"}
	err := New("ffmpeg", "ffprobe").ComposeClip(context.Background(), "slide_01.png", "audio_01.wav", "clips/clip_01.mp4", time.Second, cfg)
	if err != nil {
		t.Fatalf("ComposeClip: %v", err)
	}

	if len(calls) != 2 {
		t.Fatalf("expected probe + encode calls, got %d", len(calls))
	}
	if calls[0][0] != "ffprobe" {
		t.Fatalf("first call should probe, got %v", calls[0])
	}
	encode := strings.Join(calls[1], " ")
	// Total duration is audio (3.5s) plus the 1s leading pause.
	if !strings.Contains(encode, "-t 4.500") {
		t.Fatalf("expected -t 4.500 in %q", encode)
	}
	if !strings.Contains(encode, "adelay=1000:all=1") {
		t.Fatalf("expected 1s audio delay in %q", encode)
	}
	if !strings.Contains(encode, "-loop 1") || !strings.Contains(encode, "-framerate 24") {
		t.Fatalf("expected static image flags in %q", encode)
	}
}

func TestConcatUsesStreamCopy(t *testing.T) {
	var calls [][]string
	fakeCommand(t, "true", &calls)

	if err := New("ffmpeg", "ffprobe").Concat(context.Background(), "/out/concat_list.txt", "/out/talk_video.mp4"); err != nil {
		t.Fatalf("Concat: %v", err)
	}
	joined := strings.Join(calls[0], " ")
	for _, want := range []string{"-f concat", "-safe 0", "-i /out/concat_list.txt", "-c copy"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected %q in %q", want, joined)
		}
	}
}

func TestConcatSurfacesDiagnostics(t *testing.T) {
	fakeCommand(t, "echo 'Impossible to open clip_02.mp4' >&2; exit 1", nil)

	err := New("", "").Concat(context.Background(), "list.txt", "out.mp4")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Impossible to open clip_02.mp4") {
		t.Fatalf("expected verbatim diagnostics, got %q", err)
	}
}
