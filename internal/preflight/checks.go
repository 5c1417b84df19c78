package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"pilotcast/internal/config"
	"pilotcast/internal/deps"
)

// CheckSynthesisAPI verifies the synthesis provider is reachable and the key
// is accepted. It makes a single request with a 5-second timeout.
func CheckSynthesisAPI(ctx context.Context, baseURL, apiKey string) Result {
	const name = "Synthesis API"
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return Result{Name: name, Detail: "missing base url"}
	}
	if strings.TrimSpace(apiKey) == "" {
		return Result{Name: name, Detail: "missing api key"}
	}

	endpoint, err := url.JoinPath(base, "v1", "user")
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("invalid base url (%v)", err)}
	}
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client := &http.Client{Timeout: 5 * time.Second}
	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("auth check failed (%v)", err)}
	}
	req.Header.Set("xi-api-key", strings.TrimSpace(apiKey))
	resp, err := client.Do(req)
	if err != nil {
		return Result{Name: name, Detail: summarizeNetworkError(err)}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return Result{Name: name, Passed: true, Detail: "Reachable"}
	case http.StatusUnauthorized, http.StatusForbidden:
		return Result{Name: name, Detail: "auth failed (invalid api key)"}
	default:
		return Result{Name: name, Detail: fmt.Sprintf("auth check failed (%d)", resp.StatusCode)}
	}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSystemDeps evaluates the external tools an audio build runs. Both the
// build and the status command use this to share one requirements list.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	return deps.CheckBinaries(deps.AudioRequirements(cfg.FFmpegBinary(), cfg.FFprobeBinary()))
}

// CheckVoices reports which speakers lack a configured voice.
func CheckVoices(cfg *config.Config, speakers []string) Result {
	const name = "Voices"
	var missing []string
	for _, speaker := range speakers {
		if _, ok := cfg.VoiceFor(speaker); !ok {
			missing = append(missing, speaker)
		}
	}
	if len(missing) > 0 {
		return Result{Name: name, Detail: "missing voice for " + strings.Join(missing, ", ")}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d configured", len(speakers))}
}

func summarizeNetworkError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "check timed out (synthesis API unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "check timed out (synthesis API unreachable)"
	}
	return fmt.Sprintf("auth check failed (%v)", err)
}
