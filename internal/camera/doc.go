// Package camera acquires video-only capture streams from V4L2 device nodes.
//
// Acquire opens the configured node, confirms through VIDIOC_QUERYCAP that it
// can capture video, and hands back a Stream that keeps the device open until
// Close. Failures are classified into ErrNoDevice, ErrPermission, ErrBusy and
// ErrNotCapture so callers can render a placeholder without inspecting errno.
package camera
