// Package logging assembles structured slog loggers and formatting helpers used
// across meetcheck.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and defines the shared field keys (component, probe, session_id,
// event_type) so every probe reports failures in the same shape. A no-op
// logger is provided for tests and wiring code that cannot fail.
package logging
