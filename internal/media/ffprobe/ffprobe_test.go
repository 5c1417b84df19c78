package ffprobe

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"pilotcast/internal/services"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "audio", SampleRate: "48000", Channels: 2},
			{CodecType: "audio"},
		},
		Format: Format{
			Duration: "123.45",
			Size:     "1000",
			BitRate:  "32000",
		},
	}
	if result.AudioStreamCount() != 2 {
		t.Fatalf("expected 2 audio streams, got %d", result.AudioStreamCount())
	}
	if result.DurationSeconds() != 123.45 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if result.BitRate() != 32000 {
		t.Fatalf("unexpected bitrate: %d", result.BitRate())
	}
	if result.SampleRate() != 48000 {
		t.Fatalf("unexpected sample rate: %d", result.SampleRate())
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{
		Format: Format{
			Duration: "bad",
			Size:     "-1",
			BitRate:  "nope",
		},
	}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	if result.BitRate() != 0 {
		t.Fatalf("expected bitrate 0, got %d", result.BitRate())
	}
	if result.SampleRate() != 0 {
		t.Fatalf("expected sample rate 0 without audio, got %d", result.SampleRate())
	}
}

func writeStub(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ffprobe")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestProberDuration(t *testing.T) {
	stub := writeStub(t, `echo '{"streams":[{"codec_type":"audio"}],"format":{"duration":"2.500000"}}'`)
	seconds, err := Prober{Binary: stub}.Duration(context.Background(), "/tmp/clip.mp3")
	if err != nil {
		t.Fatalf("Duration returned error: %v", err)
	}
	if seconds != 2.5 {
		t.Fatalf("unexpected duration %v", seconds)
	}
}

func TestProberDurationRejectsZero(t *testing.T) {
	stub := writeStub(t, `echo '{"format":{"duration":"0"}}'`)
	_, err := Prober{Binary: stub}.Duration(context.Background(), "/tmp/clip.mp3")
	if !errors.Is(err, services.ErrIntegrity) {
		t.Fatalf("expected integrity error, got %v", err)
	}
}

func TestProberAudioDescribesFirstStream(t *testing.T) {
	stub := writeStub(t, `echo '{"streams":[{"codec_type":"video"},{"codec_type":"audio","sample_rate":"48000","channels":2},{"codec_type":"audio","sample_rate":"22050","channels":1}],"format":{"duration":"5.000000","bit_rate":"64012"}}'`)
	info, err := Prober{Binary: stub}.Audio(context.Background(), "/tmp/pilot.mp3")
	if err != nil {
		t.Fatalf("Audio returned error: %v", err)
	}
	want := AudioInfo{Streams: 2, SampleRate: 48000, Channels: 2, BitRate: 64012, DurationSec: 5}
	if info != want {
		t.Fatalf("Audio = %+v, want %+v", info, want)
	}
}

func TestProberAudioRejectsFileWithoutAudio(t *testing.T) {
	stub := writeStub(t, `echo '{"streams":[{"codec_type":"video"}],"format":{"duration":"bad"}}'`)
	_, err := Prober{Binary: stub}.Audio(context.Background(), "/tmp/clip.wav")
	if !errors.Is(err, services.ErrIntegrity) {
		t.Fatalf("expected integrity error, got %v", err)
	}
}

func TestInspectFailureIsToolError(t *testing.T) {
	stub := writeStub(t, `echo "clip.mp3: Invalid data found" >&2; exit 1`)
	_, err := Inspect(context.Background(), stub, "/tmp/clip.mp3")
	var toolErr *services.ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("expected ToolError, got %v", err)
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatal("expected external tool marker")
	}
	if toolErr.Output == "" {
		t.Fatal("expected diagnostic output to be captured")
	}
}
