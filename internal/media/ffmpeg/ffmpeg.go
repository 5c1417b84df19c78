// Package ffmpeg runs the ffmpeg binary and reports failures with the tool's
// diagnostic output attached.
package ffmpeg

import (
	"context"
	"os/exec"
	"strings"

	"pilotcast/internal/services"
)

// maxOutput bounds the diagnostic text kept from a failed run; ffmpeg
// prints the cause last.
const maxOutput = 8192

// CommandRunner executes name with args and returns combined output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func defaultCommandRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	return cmd.CombinedOutput()
}

// Runner invokes a fixed ffmpeg binary.
type Runner struct {
	binary string
	run    CommandRunner
}

// New constructs a Runner for binary (defaults to "ffmpeg").
func New(binary string) *Runner {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Runner{binary: binary, run: defaultCommandRunner}
}

// WithCommandRunner allows injecting a custom command runner for tests.
func (r *Runner) WithCommandRunner(run CommandRunner) {
	if r != nil && run != nil {
		r.run = run
	}
}

// Binary returns the executable the runner invokes.
func (r *Runner) Binary() string {
	return r.binary
}

// Run executes ffmpeg non-interactively. "-y -hide_banner -nostdin -loglevel error"
// is prepended to args.
func (r *Runner) Run(ctx context.Context, args ...string) error {
	full := append([]string{"-y", "-hide_banner", "-nostdin", "-loglevel", "error"}, args...)
	output, err := r.run(ctx, r.binary, full...)
	if err != nil {
		text := string(output)
		if len(text) > maxOutput {
			text = text[len(text)-maxOutput:]
		}
		return &services.ToolError{Tool: r.binary, Args: full, Output: text, Err: err}
	}
	return nil
}
