package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pilotcast/internal/services"
)

// Assembler renders silence and concatenates segments into the final track.
type Assembler struct {
	processor Processor
	format    Format
}

// NewAssembler constructs an Assembler encoding to format.
func NewAssembler(processor Processor, format Format) *Assembler {
	return &Assembler{processor: processor, format: format.withDefaults()}
}

// Silence writes a WAV of dur seconds of digital silence to out.
func (a *Assembler) Silence(ctx context.Context, out string, dur float64) (Segment, error) {
	if dur < timeResolution {
		return Segment{}, fmt.Errorf("silence of %.6fs is too short to render", dur)
	}
	source := fmt.Sprintf("anullsrc=r=%d:cl=%s", a.format.SampleRate, a.format.channelLayout())
	args := []string{"-f", "lavfi", "-i", source, "-t", fmt.Sprintf("%.6f", dur)}
	args = append(args, a.format.resampleArgs()...)
	args = append(args, out)
	if err := a.processor.Run(ctx, args...); err != nil {
		return Segment{}, services.Wrap(nil, "audio", "silence", out, err)
	}
	return Segment{Kind: KindSilence, Path: out, DurationSec: dur}, nil
}

// Assemble concatenates segments in order and encodes the result to out.
// The concat list is written beside out.
func (a *Assembler) Assemble(ctx context.Context, segments []Segment, out string) error {
	if len(segments) == 0 {
		return fmt.Errorf("assemble %s: no segments", out)
	}
	listPath := filepath.Join(filepath.Dir(out), "concat.txt")
	if err := os.WriteFile(listPath, []byte(ConcatList(segments)), 0o644); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}

	args := []string{"-f", "concat", "-safe", "0", "-i", listPath, "-c:a", a.format.Codec, "-b:a", a.format.Bitrate}
	args = append(args, a.format.resampleArgs()...)
	args = append(args, out)
	if err := a.processor.Run(ctx, args...); err != nil {
		return services.Wrap(nil, "audio", "encode", out, err)
	}
	return nil
}

// ConcatList renders the concat demuxer script for segments.
func ConcatList(segments []Segment) string {
	var b strings.Builder
	for _, seg := range segments {
		b.WriteString("file ")
		b.WriteString(quoteConcatPath(filepath.ToSlash(seg.Path)))
		b.WriteByte('\n')
	}
	return b.String()
}

// quoteConcatPath single-quotes path for the concat demuxer; embedded
// quotes are closed, escaped, and reopened.
func quoteConcatPath(path string) string {
	return "'" + strings.ReplaceAll(path, "'", `'\''`) + "'"
}
