// Package preflight provides one-shot environment checks for the devices and
// services meetcheck depends on.
//
// The CLI "meetcheck doctor" command runs RunAll and renders the results.
// CheckCaptureDevice labels the device from sysfs via ProbeCamera without
// opening it. Each check is gated by its config toggle, and disabled probes
// report as skipped.
package preflight
