package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConfiguration = errors.New("configuration error")
	ErrValidation    = errors.New("validation error")
	ErrExternalTool  = errors.New("external tool error")
	ErrNetwork       = errors.New("network error")
	ErrIntegrity     = errors.New("integrity error")
	ErrNotFound      = errors.New("not found")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		return fmt.Errorf("%s: %w", detail, err)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ToolError reports a non-zero exit from an external binary together with the
// diagnostic output it produced.
type ToolError struct {
	Tool   string
	Args   []string
	Output string
	Err    error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s failed", e.Tool)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		msg = fmt.Sprintf("%s: %s", msg, out)
	}
	return msg
}

func (e *ToolError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrExternalTool}
	}
	return []error{ErrExternalTool, e.Err}
}

// HTTPError reports a non-success response from a remote provider.
type HTTPError struct {
	Provider string
	Status   int
	Body     string
}

func (e *HTTPError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s http %d", e.Provider, e.Status)
	}
	return fmt.Sprintf("%s http %d: %s", e.Provider, e.Status, body)
}

func (e *HTTPError) Unwrap() error { return ErrNetwork }

// Category returns a short label for the marker carried by err.
func Category(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrExternalTool):
		return "external_tool"
	case errors.Is(err, ErrNetwork):
		return "network"
	case errors.Is(err, ErrIntegrity):
		return "integrity"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "unknown"
	}
}

// Hint returns operator guidance for the marker carried by err.
func Hint(err error) string {
	switch Category(err) {
	case "configuration":
		return "set the synthesis api key and a voice id for every speaker (config.toml or ELEVENLABS_* env vars)"
	case "validation":
		return "fix the script: lines must be non-empty and every to_sec must exceed from_sec"
	case "external_tool":
		return "ensure ffmpeg and ffprobe are installed and on PATH; see tool output above"
	case "network":
		return "check provider status and credentials; cached segments are reused on rerun"
	case "integrity":
		return "provider returned unusable audio; rerun with --force to regenerate the segment"
	case "not_found":
		return "check that the referenced file exists"
	default:
		return "check logs for details"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
