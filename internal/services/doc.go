// Package services defines shared utilities consumed by the build pipeline and
// its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers and stage names for logging.
//   - Structured error markers plus the Wrap helper, and typed errors that
//     carry tool diagnostics or provider status codes, so the CLI can classify
//     failures (configuration, validation, external tool, network, integrity).
//
// Provider clients live in subpackages (see services/elevenlabs).
package services
