// Package config loads, normalizes, and validates meetcheck configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// MEETCHECK_PROBE_URL. The Config type centralizes every knob the readiness
// widget and CLI need: which capture device to open, where the battery lives
// in sysfs, how the speaker clip is produced, and how the network probe is
// paced.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
