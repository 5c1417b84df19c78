// Package workflow runs a pilotcast build end to end.
//
// A Builder loads and validates the script, writes the compiled stage
// timeline and caption tracks, and, when audio is requested, synthesizes
// each line through the segment cache, retimes the clips to their slots,
// and publishes the assembled track through the publish guard.
//
// Synthesis runs strictly in chronological line order. Rendering the
// retimed clips and silences is local work and runs on a bounded pool.
package workflow
