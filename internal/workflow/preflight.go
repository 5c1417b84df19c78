package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"pilotcast/internal/deps"
	"pilotcast/internal/logging"
	"pilotcast/internal/preflight"
	"pilotcast/internal/services"
)

// runPreflightChecks validates tools and directories before any synthesis.
// Returns nil when all checks pass, or an error describing all failures.
func (b *Builder) runPreflightChecks(ctx context.Context, logger *slog.Logger) error {
	if b.checkDeps {
		if err := deps.Missing(preflight.CheckSystemDeps(b.cfg)); err != nil {
			return err
		}
	}

	results := preflight.RunAll(ctx, b.cfg)
	failed := preflight.Failed(results)
	if len(failed) == 0 {
		logger.Debug("preflight checks passed",
			logging.Int("checks", len(results)),
			logging.String(logging.FieldEventType, "preflight_passed"),
		)
		return nil
	}

	failures := make([]string, 0, len(failed))
	for _, r := range failed {
		logger.Error("preflight check failed",
			logging.String("check", r.Name),
			logging.String("detail", r.Detail),
			logging.String(logging.FieldEventType, "preflight_failed"),
			logging.String(logging.FieldErrorHint, "fix the reported issue and rerun the build"),
		)
		failures = append(failures, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}
	return services.Wrap(services.ErrConfiguration, "workflow", "preflight",
		strings.Join(failures, "; "), nil)
}
