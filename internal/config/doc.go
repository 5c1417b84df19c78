// Package config loads, normalizes, and validates pilotcast configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// ELEVENLABS_API_KEY and ELEVENLABS_VOICE_ID_<SPEAKER>. A .env file in the
// working directory is read first without overriding variables that are
// already set.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
