// Package segcache is the content-addressed store of synthesized speech clips.
//
// Clips are keyed by a fingerprint of (speaker, voice, model, text) and kept
// as files under <dir>/segments, with a SQLite index (segments.db) recording
// what each fingerprint was generated from. Entries are never overwritten:
// replacing one requires an explicit Evict first.
package segcache
