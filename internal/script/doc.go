// Package script decodes and validates authored show scripts.
//
// A script names the cast, the timed dialogue lines (with optional
// translations keyed by language code), point-in-time stage events, and
// optional scene cuts. Parse rejects scripts that cannot produce a coherent
// timeline; everything downstream treats the returned Spec as read-only.
package script
