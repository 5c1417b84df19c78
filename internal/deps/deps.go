package deps

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"pilotcast/internal/services"
)

// Requirement defines an external dependency pilotcast relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// AudioRequirements lists the binaries an audio build shells out to.
func AudioRequirements(ffmpeg, ffprobe string) []Requirement {
	return []Requirement{
		{
			Name:        "FFmpeg",
			Command:     ffmpeg,
			Description: "Required for time-stretching and assembling audio",
		},
		{
			Name:        "FFprobe",
			Command:     ResolveFFprobe(ffmpeg, ffprobe),
			Description: "Required for clip duration probes",
		},
	}
}

// Missing returns a configuration error naming every unavailable required
// dependency, or nil when all are present.
func Missing(statuses []Status) error {
	var errs []error
	for _, status := range statuses {
		if status.Available || status.Optional {
			continue
		}
		errs = append(errs, fmt.Errorf("%s: %s", status.Name, status.Detail))
	}
	if len(errs) == 0 {
		return nil
	}
	return services.Wrap(services.ErrConfiguration, "deps", "check", "missing required tools", errors.Join(errs...))
}
