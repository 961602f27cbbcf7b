// Package checkrun owns the process runtime of a readiness session: session
// ID, logger, single-instance device lock, widget construction from config,
// the optional status API and signal-driven shutdown.
package checkrun
