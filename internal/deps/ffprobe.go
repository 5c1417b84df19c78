package deps

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// ResolveFFprobe picks the ffprobe binary to run. An explicitly configured
// ffprobe that is not the bare default wins. Otherwise an ffprobe sitting
// next to the resolved ffmpeg is preferred so both tools come from the same
// build, falling back to the configured name.
func ResolveFFprobe(ffmpeg, ffprobe string) string {
	ffprobe = strings.TrimSpace(ffprobe)
	if ffprobe == "" {
		ffprobe = "ffprobe"
	}
	if ffprobe != "ffprobe" {
		return ffprobe
	}
	ffmpeg = strings.TrimSpace(ffmpeg)
	if ffmpeg == "" {
		return ffprobe
	}
	resolved, err := exec.LookPath(ffmpeg)
	if err != nil {
		return ffprobe
	}
	candidate := filepath.Join(filepath.Dir(resolved), executableName("ffprobe"))
	if info, err := os.Stat(candidate); err == nil && isExecutable(info) {
		return candidate
	}
	return ffprobe
}

func executableName(base string) string {
	if runtime.GOOS == "windows" {
		return base + ".exe"
	}
	return base
}

func isExecutable(info os.FileInfo) bool {
	if info == nil {
		return false
	}
	if info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
