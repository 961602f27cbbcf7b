package speaker

import (
	"log/slog"
	"sync"

	"meetcheck/internal/logging"
)

// State is the speaker test state.
type State string

const (
	StateStopped  State = "stopped"
	StatePlaying  State = "playing"
	StateReleased State = "released"
)

// Toggle is the two-state speaker test control. Press flips between stopped
// and playing; natural end of the clip returns it to stopped; Release is
// terminal.
type Toggle struct {
	logger   *slog.Logger
	onChange func()

	mu    sync.Mutex
	audio Audio
	state State
}

// NewToggle binds the control to audio, which may be nil when the resource
// failed to initialize. onChange runs after every state transition, outside
// the toggle's lock.
func NewToggle(audio Audio, logger *slog.Logger, onChange func()) *Toggle {
	t := &Toggle{
		logger:   logging.NewComponentLogger(logger, "speaker"),
		onChange: onChange,
		audio:    audio,
		state:    StateStopped,
	}
	if audio != nil {
		audio.OnEnded(t.ended)
	}
	return t
}

// State returns the current state.
func (t *Toggle) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Press performs the user toggle action and returns the resulting state.
func (t *Toggle) Press() State {
	t.mu.Lock()
	if t.state == StateReleased {
		t.mu.Unlock()
		return StateReleased
	}
	if t.audio == nil {
		t.mu.Unlock()
		logging.ErrorWithContext(t.logger, "audio object not initialized", "speaker_not_initialized",
			logging.String(logging.FieldProbe, "speaker"),
			logging.String(logging.FieldErrorHint, "install paplay, pw-play, aplay or ffplay, or set speaker.player"),
		)
		return StateStopped
	}

	switch t.state {
	case StatePlaying:
		t.audio.Pause()
		t.state = StateStopped
	default:
		t.audio.Rewind()
		if err := t.audio.Play(); err != nil {
			t.mu.Unlock()
			logging.WarnWithContext(t.logger, "speaker test playback failed", "speaker_play_failed",
				logging.String(logging.FieldProbe, "speaker"),
				logging.Error(err),
				logging.String(logging.FieldImpact, "speaker test unavailable"),
			)
			return StateStopped
		}
		t.state = StatePlaying
	}
	state := t.state
	t.mu.Unlock()

	t.notify()
	return state
}

func (t *Toggle) ended() {
	t.mu.Lock()
	if t.state != StatePlaying {
		t.mu.Unlock()
		return
	}
	t.state = StateStopped
	t.mu.Unlock()
	t.notify()
}

// Release pauses playback, drops the audio reference and closes it. The
// toggle ignores every later action.
func (t *Toggle) Release() {
	t.mu.Lock()
	if t.state == StateReleased {
		t.mu.Unlock()
		return
	}
	audio := t.audio
	t.audio = nil
	t.state = StateReleased
	t.mu.Unlock()

	if audio == nil {
		return
	}
	audio.Pause()
	if err := audio.Close(); err != nil {
		t.logger.Debug("close audio resource", logging.Error(err))
	}
}

// Initialized reports whether an audio resource is still held.
func (t *Toggle) Initialized() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.audio != nil
}

func (t *Toggle) notify() {
	if t.onChange != nil {
		t.onChange()
	}
}
