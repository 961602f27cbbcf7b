// Package speaker drives the speaker test: a short clip, an external player
// process that plays it, and the Start/Stop toggle around them.
//
// When no clip is configured a sine tone is rendered to a temporary WAV file.
// The Toggle is a strict two-state machine (stopped, playing) that returns to
// stopped when the clip ends by itself and becomes inert once released.
package speaker
