// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Prober: duration probe used to measure synthesized clips
//
// Tool failures are returned as *services.ToolError carrying ffprobe's
// diagnostic output.
package ffprobe
