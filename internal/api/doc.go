// Package api exposes the readiness widget over a small local HTTP surface.
//
// # Routes
//
// GET /api/status: the current readiness snapshot as StatusResponse.
//
// POST /api/speaker/toggle: presses the speaker test toggle and returns the
// resulting playback state.
//
// GET /healthz: liveness probe.
//
// # Design Notes
//
// DTOs use camelCase JSON tags for browser consumers and are converted from
// readiness.Snapshot by FromSnapshot, so the widget's internal types can change
// without breaking the wire format. Timestamps use RFC3339 with milliseconds.
// The server binds to paths.api_bind only; there is no authentication, so the
// bind address should stay on loopback.
package api
