// Package main hosts the meetcheck CLI entrypoint and command graph.
//
// The Cobra-based command tree mounts the readiness widget for live viewing
// (watch), one-shot reports (status) and environment diagnostics (doctor),
// plus configuration scaffolding. It centralizes configuration resolution so
// subcommands only render; probe logic lives in the internal packages.
package main
