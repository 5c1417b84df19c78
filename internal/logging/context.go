package logging

import (
	"context"
	"log/slog"

	"pilotcast/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized key for the build run identifier.
	FieldRunID = "run_id"
	// FieldStage is the standardized key for pipeline stage names.
	FieldStage = "stage"
	// FieldEventType classifies warnings and errors for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint carries the operator's next step.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldLineIndex is the 1-based index of a dialogue line in chronological order.
	FieldLineIndex = "line_index"
	// FieldLineCount is the total number of dialogue lines in a run.
	FieldLineCount = "line_count"
	// FieldSpeaker is the cast id of a dialogue line's speaker.
	FieldSpeaker = "speaker"
	// FieldFingerprint is the segment cache key.
	FieldFingerprint = "fingerprint"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id, ok := services.RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if stage, ok := services.StageFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldStage, stage))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
