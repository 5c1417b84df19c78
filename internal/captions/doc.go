// Package captions renders WebVTT subtitle tracks from a script.
//
// One track is produced per requested language. Cues follow the script's
// line order; a line without a translation falls back to its source text.
package captions
