package speaker

import (
	"errors"
	"log/slog"
	"os/exec"
	"sync"

	"meetcheck/internal/deps"
	"meetcheck/internal/logging"
)

var (
	// ErrClosed reports use of an audio resource after Close.
	ErrClosed = errors.New("audio resource closed")
	// ErrNoPlayer reports that no supported audio player is installed.
	ErrNoPlayer = deps.ErrNoPlayer
)

// Audio is a playable test clip. Play always starts from the current
// position, which Rewind resets to the start of the clip.
type Audio interface {
	Rewind()
	Play() error
	Pause()
	// OnEnded registers the callback fired when playback reaches the end of
	// the clip on its own. It is not fired for Pause.
	OnEnded(fn func())
	Close() error
}

// ProcessAudio plays a clip through an external player process. A process
// cannot resume mid-clip, so every Play starts at the beginning.
type ProcessAudio struct {
	player deps.Player
	clip   *Clip
	logger *slog.Logger

	mu      sync.Mutex
	current *playback
	onEnded func()
	closed  bool
}

type playback struct {
	cmd    *exec.Cmd
	paused bool
	done   chan struct{}
}

// NewProcessAudio binds a player to a prepared clip.
func NewProcessAudio(player deps.Player, clip *Clip, logger *slog.Logger) *ProcessAudio {
	return &ProcessAudio{
		player: player,
		clip:   clip,
		logger: logging.NewComponentLogger(logger, "speaker"),
	}
}

// OnEnded implements Audio.
func (a *ProcessAudio) OnEnded(fn func()) {
	a.mu.Lock()
	a.onEnded = fn
	a.mu.Unlock()
}

// Rewind implements Audio. Any running playback is abandoned so the next Play
// starts at the beginning.
func (a *ProcessAudio) Rewind() {
	a.Pause()
}

// Play implements Audio.
func (a *ProcessAudio) Play() error {
	a.Pause()

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrClosed
	}

	name, args := a.player.Command(a.clip.Path)
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	p := &playback{cmd: cmd, done: make(chan struct{})}
	a.current = p
	go a.wait(p)

	a.logger.Debug("playback started",
		logging.String("player", a.player.Name),
		logging.String("clip", a.clip.Path),
	)
	return nil
}

func (a *ProcessAudio) wait(p *playback) {
	err := p.cmd.Wait()

	a.mu.Lock()
	natural := !p.paused && a.current == p
	if a.current == p {
		a.current = nil
	}
	fn := a.onEnded
	a.mu.Unlock()
	close(p.done)

	if !natural {
		return
	}
	if err != nil {
		logging.WarnWithContext(a.logger, "audio player exited with error", "speaker_player_failed",
			logging.Error(err),
			logging.String("player", a.player.Name),
			logging.String(logging.FieldErrorHint, "verify the audio output device is available"),
			logging.String(logging.FieldImpact, "speaker test stopped early"),
		)
	}
	if fn != nil {
		fn()
	}
}

// Pause implements Audio. It stops the player and waits for it to exit.
func (a *ProcessAudio) Pause() {
	a.mu.Lock()
	p := a.current
	a.current = nil
	if p != nil {
		p.paused = true
	}
	a.mu.Unlock()

	if p == nil {
		return
	}
	if p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
	<-p.done
}

// Close stops playback and removes a generated clip.
func (a *ProcessAudio) Close() error {
	a.Pause()
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	a.onEnded = nil
	a.mu.Unlock()
	return a.clip.Remove()
}
