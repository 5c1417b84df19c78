// Package speech turns dialogue lines into raw voice clips.
//
// The Synthesizer resolves each speaker's voice, consults the segment cache,
// and only calls the provider on a miss. Forced runs evict and regenerate
// each fingerprint once. Calls are made one at a time in the order requested.
package speech
