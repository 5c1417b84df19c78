package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"pilotcast/internal/services"
)

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index      int    `json:"index"`
	CodecName  string `json:"codec_name"`
	CodecType  string `json:"codec_type"`
	Duration   string `json:"duration"`
	BitRate    string `json:"bit_rate"`
	SampleRate string `json:"sample_rate"`
	Channels   int    `json:"channels"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string `json:"filename"`
	NBStreams  int    `json:"nb_streams"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
	FormatName string `json:"format_name"`
}

// Inspect executes ffprobe against the provided path and decodes the JSON response.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	args := []string{"-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path}
	cmd := exec.CommandContext(ctx, binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return Result{}, &services.ToolError{Tool: binary, Args: args, Output: string(output), Err: err}
	}

	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, "ffprobe", "parse", path, err)
	}
	return result, nil
}

// Prober reports media durations using a fixed ffprobe binary.
type Prober struct {
	Binary string
}

// Duration returns the container duration of path in seconds. A missing,
// zero, or unparseable duration is an integrity failure.
func (p Prober) Duration(ctx context.Context, path string) (float64, error) {
	result, err := Inspect(ctx, p.Binary, path)
	if err != nil {
		return 0, err
	}
	seconds := result.DurationSeconds()
	if math.IsNaN(seconds) || seconds <= 0 {
		return 0, services.Wrap(services.ErrIntegrity, "ffprobe", "duration",
			fmt.Sprintf("%s reports unusable duration %q", path, result.Format.Duration), nil)
	}
	return seconds, nil
}

// AudioInfo summarizes the audio carried by a file.
type AudioInfo struct {
	Streams     int
	SampleRate  int
	Channels    int
	BitRate     int64
	DurationSec float64
}

// Audio describes the first audio stream of path. A file without audio is
// an integrity failure.
func (p Prober) Audio(ctx context.Context, path string) (AudioInfo, error) {
	result, err := Inspect(ctx, p.Binary, path)
	if err != nil {
		return AudioInfo{}, err
	}
	stream, ok := result.FirstAudio()
	if !ok {
		return AudioInfo{}, services.Wrap(services.ErrIntegrity, "ffprobe", "audio",
			fmt.Sprintf("%s has no audio stream", path), nil)
	}
	duration := result.DurationSeconds()
	if math.IsNaN(duration) {
		duration = 0
	}
	return AudioInfo{
		Streams:     result.AudioStreamCount(),
		SampleRate:  result.SampleRate(),
		Channels:    stream.Channels,
		BitRate:     result.BitRate(),
		DurationSec: duration,
	}, nil
}

// AudioStreamCount returns the number of audio streams discovered.
func (r Result) AudioStreamCount() int {
	count := 0
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "audio") {
			count++
		}
	}
	return count
}

// FirstAudio returns the first audio stream, if any.
func (r Result) FirstAudio() (Stream, bool) {
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "audio") {
			return stream, true
		}
	}
	return Stream{}, false
}

// DurationSeconds returns the container duration in seconds, or 0 when unavailable.
func (r Result) DurationSeconds() float64 {
	return parseFloat(r.Format.Duration)
}

// BitRate returns the container bitrate in bits per second, or 0 when unavailable.
func (r Result) BitRate() int64 {
	rate := parseFloat(r.Format.BitRate)
	if math.IsNaN(rate) || rate < 0 {
		return 0
	}
	return int64(rate)
}

// SampleRate returns the sample rate of the first audio stream, or 0.
func (r Result) SampleRate() int {
	stream, ok := r.FirstAudio()
	if !ok {
		return 0
	}
	rate := parseFloat(stream.SampleRate)
	if math.IsNaN(rate) || rate < 0 {
		return 0
	}
	return int(rate)
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return parsed
	}
	return math.NaN()
}
