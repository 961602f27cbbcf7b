// Package readiness runs the pre-call readiness widget: camera, battery,
// speaker and network probes composed behind one mount/unmount lifecycle.
//
// A Widget is mounted once. Mount starts every probe concurrently; a probe
// that fails degrades only its own section of the Snapshot. Observers
// registered with Subscribe receive immutable snapshots after each change.
// Unmount stops the timers, waits for probe goroutines and releases the
// audio resource, the capture stream and the battery observer. Nothing is
// published after Unmount returns.
package readiness
