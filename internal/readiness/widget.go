package readiness

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"meetcheck/internal/battery"
	"meetcheck/internal/camera"
	"meetcheck/internal/logging"
	"meetcheck/internal/netspeed"
	"meetcheck/internal/speaker"
)

var (
	// ErrAlreadyMounted is returned by a second Mount call.
	ErrAlreadyMounted = errors.New("readiness widget already mounted")
	// ErrTornDown is returned by Mount after Unmount.
	ErrTornDown = errors.New("readiness widget torn down")
)

// DefaultInterval is the network sample cadence.
const DefaultInterval = 10 * time.Second

// CameraSource acquires a video-only capture stream.
type CameraSource interface {
	Acquire(ctx context.Context) (camera.Stream, error)
}

// BatterySource reports the charge fraction and level changes.
type BatterySource interface {
	Level(ctx context.Context) (float64, error)
	Subscribe(ctx context.Context, fn func(float64)) (cancel func(), err error)
}

// AudioFactory prepares the speaker test clip for playback.
type AudioFactory func(ctx context.Context) (speaker.Audio, error)

// Options wires probe sources into a Widget. A nil source disables its probe.
type Options struct {
	Camera    CameraSource
	Battery   BatterySource
	Audio     AudioFactory
	Estimator netspeed.Estimator

	Interval  time.Duration
	NewTicker TickerFactory
	Now       func() time.Time
	Logger    *slog.Logger
}

type phase int

const (
	phaseIdle phase = iota
	phaseMounted
	phaseTornDown
)

// Widget is the readiness widget.
type Widget struct {
	camera    CameraSource
	battery   BatterySource
	audio     AudioFactory
	estimator netspeed.Estimator
	interval  time.Duration
	newTicker TickerFactory
	now       func() time.Time
	logger    *slog.Logger

	mu            sync.Mutex
	phase         phase
	snap          Snapshot
	countdown     *Countdown
	probing       bool
	toggle        *speaker.Toggle
	stream        camera.Stream
	batteryCancel func()
	observers     map[int]func(Snapshot)
	nextObserver  int

	// publishMu serializes observer delivery; delivered is the last version
	// handed to observers.
	publishMu sync.Mutex
	delivered uint64

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New builds an unmounted widget.
func New(opts Options) *Widget {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	newTicker := opts.NewTicker
	if newTicker == nil {
		newTicker = NewRealTicker
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	w := &Widget{
		camera:    opts.Camera,
		battery:   opts.Battery,
		audio:     opts.Audio,
		estimator: opts.Estimator,
		interval:  interval,
		newTicker: newTicker,
		now:       now,
		logger:    logging.NewComponentLogger(opts.Logger, "readiness"),
		countdown: NewCountdown(interval),
		observers: make(map[int]func(Snapshot)),
	}
	w.snap = w.initialSnapshot()
	return w
}

func (w *Widget) initialSnapshot() Snapshot {
	stateFor := func(enabled bool) ProbeState {
		if enabled {
			return ProbePending
		}
		return ProbeDisabled
	}
	return Snapshot{
		Camera:  CameraStatus{State: stateFor(w.camera != nil)},
		Battery: BatteryStatus{State: stateFor(w.battery != nil)},
		Speaker: SpeakerStatus{State: stateFor(w.audio != nil), Playback: speaker.StateStopped},
		Network: NetworkStatus{
			State:     stateFor(w.estimator != nil),
			Countdown: w.countdown.Remaining(),
			Interval:  w.countdown.Interval(),
		},
		UpdatedAt: w.now(),
	}
}

// Mount starts every enabled probe. It runs once per widget.
func (w *Widget) Mount(ctx context.Context) error {
	w.mu.Lock()
	switch w.phase {
	case phaseMounted:
		w.mu.Unlock()
		return ErrAlreadyMounted
	case phaseTornDown:
		w.mu.Unlock()
		return ErrTornDown
	}
	w.phase = phaseMounted
	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.snap.Mounted = true

	if w.audio != nil {
		w.spawn(func() { w.initSpeaker(runCtx) })
	}
	if w.camera != nil {
		w.spawn(func() { w.acquireCamera(runCtx) })
	}
	if w.battery != nil {
		w.spawn(func() { w.watchBattery(runCtx) })
	}
	if w.estimator != nil {
		w.startProbeLocked(runCtx)
		w.spawn(func() { w.schedule(runCtx) })
	}
	w.mu.Unlock()

	w.logger.Info("readiness widget mounted",
		logging.Bool("camera", w.camera != nil),
		logging.Bool("battery", w.battery != nil),
		logging.Bool("speaker", w.audio != nil),
		logging.Bool("network", w.estimator != nil),
		logging.Duration("interval", w.interval),
	)
	w.update(func(*Snapshot) {})
	return nil
}

// spawn must be called with w.mu held while mounted.
func (w *Widget) spawn(fn func()) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		fn()
	}()
}

// Unmount tears the widget down. It is idempotent and may be called before
// Mount, in which case a later Mount fails with ErrTornDown.
func (w *Widget) Unmount() {
	w.mu.Lock()
	if w.phase == phaseTornDown {
		w.mu.Unlock()
		return
	}
	wasMounted := w.phase == phaseMounted
	w.phase = phaseTornDown
	cancel := w.cancel
	w.mu.Unlock()

	// Wait out any delivery already in progress; later ones see phaseTornDown.
	w.publishMu.Lock()
	w.publishMu.Unlock() //nolint:staticcheck

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()

	w.mu.Lock()
	toggle, stream, stopBattery := w.toggle, w.stream, w.batteryCancel
	w.toggle, w.stream, w.batteryCancel = nil, nil, nil
	w.snap.Mounted = false
	w.snap.Camera.Device = nil
	w.snap.Speaker.Playback = speaker.StateReleased
	w.snap.Speaker.Initialized = false
	w.snap.Network.Probing = false
	w.observers = map[int]func(Snapshot){}
	w.mu.Unlock()

	if toggle != nil {
		toggle.Release()
	}
	if stopBattery != nil {
		stopBattery()
	}
	if stream != nil {
		if err := stream.Close(); err != nil {
			w.logger.Debug("close capture stream", logging.Error(err))
		}
	}
	if wasMounted {
		w.logger.Info("readiness widget unmounted")
	}
}

// Snapshot returns a copy of the current state.
func (w *Widget) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snap.clone()
}

// Subscribe registers fn for every published snapshot. fn runs on the
// publishing goroutine and must not call back into the widget's mutating
// methods synchronously.
func (w *Widget) Subscribe(fn func(Snapshot)) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	w.mu.Lock()
	id := w.nextObserver
	w.nextObserver++
	w.observers[id] = fn
	w.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			w.mu.Lock()
			delete(w.observers, id)
			w.mu.Unlock()
		})
	}
}

// PressSpeaker performs the speaker toggle action and returns the resulting
// playback state. It returns SpeakerNotMounted before Mount and
// speaker.StateReleased after Unmount.
func (w *Widget) PressSpeaker() speaker.State {
	w.mu.Lock()
	if w.phase == phaseIdle {
		w.mu.Unlock()
		return SpeakerNotMounted
	}
	if w.phase != phaseMounted {
		state := w.snap.Speaker.Playback
		w.mu.Unlock()
		return state
	}
	toggle := w.toggle
	w.mu.Unlock()

	if toggle == nil {
		logging.ErrorWithContext(w.logger, "audio object not initialized", "speaker_not_initialized",
			logging.String(logging.FieldProbe, "speaker"),
			logging.String(logging.FieldErrorHint, "wait for the speaker test to finish preparing"),
		)
		return speaker.StateStopped
	}
	return toggle.Press()
}

// update applies fn to the state and publishes the result. Updates are
// refused once teardown has begun.
func (w *Widget) update(fn func(*Snapshot)) {
	w.mu.Lock()
	if w.phase != phaseMounted {
		w.mu.Unlock()
		return
	}
	fn(&w.snap)
	w.snap.Version++
	w.snap.UpdatedAt = w.now()
	snap := w.snap.clone()
	observers := make([]func(Snapshot), 0, len(w.observers))
	for _, o := range w.observers {
		observers = append(observers, o)
	}
	w.mu.Unlock()

	w.publishMu.Lock()
	defer w.publishMu.Unlock()
	w.mu.Lock()
	live := w.phase == phaseMounted
	w.mu.Unlock()
	if !live || snap.Version <= w.delivered {
		return
	}
	w.delivered = snap.Version
	for _, o := range observers {
		o(snap)
	}
}

func (w *Widget) initSpeaker(ctx context.Context) {
	audio, err := w.audio(ctx)
	if err != nil {
		logging.WarnWithContext(w.logger, "speaker test unavailable", "speaker_init_failed",
			logging.String(logging.FieldProbe, "speaker"),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "install paplay, pw-play, aplay or ffplay, or set speaker.player"),
			logging.String(logging.FieldImpact, "speaker test button does nothing"),
		)
	}
	toggle := speaker.NewToggle(audio, w.logger, w.speakerChanged)

	w.mu.Lock()
	if w.phase != phaseMounted {
		w.mu.Unlock()
		toggle.Release()
		return
	}
	w.toggle = toggle
	w.mu.Unlock()

	w.update(func(s *Snapshot) {
		s.Speaker.Initialized = audio != nil
		s.Speaker.Playback = toggle.State()
		if err != nil {
			s.Speaker.State = ProbeUnavailable
			s.Speaker.Error = err.Error()
			return
		}
		s.Speaker.State = ProbeReady
	})
}

func (w *Widget) speakerChanged() {
	w.update(func(s *Snapshot) {
		if w.toggle != nil {
			s.Speaker.Playback = w.toggle.State()
		}
	})
}

func (w *Widget) acquireCamera(ctx context.Context) {
	stream, err := w.camera.Acquire(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logging.WarnWithContext(w.logger, "webcam error", "camera_acquire_failed",
			logging.String(logging.FieldProbe, "camera"),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, cameraHint(err)),
			logging.String(logging.FieldImpact, "no webcam preview"),
		)
		w.update(func(s *Snapshot) {
			s.Camera.State = ProbeUnavailable
			s.Camera.Error = err.Error()
		})
		return
	}

	w.mu.Lock()
	if w.phase != phaseMounted {
		w.mu.Unlock()
		_ = stream.Close()
		return
	}
	w.stream = stream
	w.mu.Unlock()

	info := stream.Info()
	w.logger.Info("webcam stream acquired",
		logging.String(logging.FieldProbe, "camera"),
		logging.String("device", info.Path),
		logging.String("card", info.Card),
	)
	w.update(func(s *Snapshot) {
		s.Camera.State = ProbeReady
		s.Camera.Device = &info
		s.Camera.Error = ""
	})
}

func cameraHint(err error) string {
	switch {
	case errors.Is(err, camera.ErrPermission):
		return "add the user to the video group or grant camera access"
	case errors.Is(err, camera.ErrNoDevice):
		return "connect a webcam or set camera.device"
	case errors.Is(err, camera.ErrNotCapture):
		return "camera.device must point at a video capture node"
	case errors.Is(err, camera.ErrBusy):
		return "close other applications using the webcam"
	default:
		return "check the webcam connection"
	}
}

func (w *Widget) watchBattery(ctx context.Context) {
	fraction, err := w.battery.Level(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		if errors.Is(err, battery.ErrUnavailable) {
			w.logger.Info("battery info not available", logging.String(logging.FieldProbe, "battery"))
		} else {
			logging.WarnWithContext(w.logger, "battery query failed", "battery_query_failed",
				logging.String(logging.FieldProbe, "battery"),
				logging.Error(err),
				logging.String(logging.FieldImpact, "battery level not shown"),
			)
		}
		w.update(func(s *Snapshot) {
			s.Battery.State = ProbeUnavailable
			s.Battery.Message = BatteryUnavailableMessage
		})
		return
	}

	supply := ""
	if named, ok := w.battery.(interface{ Supply() (string, error) }); ok {
		supply, _ = named.Supply()
	}
	w.setBattery(fraction, supply)

	stop, err := w.battery.Subscribe(ctx, func(f float64) { w.setBattery(f, supply) })
	if err != nil {
		logging.WarnWithContext(w.logger, "battery level changes unavailable", "battery_subscribe_failed",
			logging.String(logging.FieldProbe, "battery"),
			logging.Error(err),
			logging.String(logging.FieldImpact, "battery level shown once and not refreshed"),
		)
	}
	if stop == nil {
		return
	}

	w.mu.Lock()
	if w.phase != phaseMounted {
		w.mu.Unlock()
		stop()
		return
	}
	w.batteryCancel = stop
	w.mu.Unlock()
}

func (w *Widget) setBattery(fraction float64, supply string) {
	pct := battery.Percent(fraction)
	w.update(func(s *Snapshot) {
		s.Battery.State = ProbeReady
		s.Battery.Percent = &pct
		s.Battery.Supply = supply
		s.Battery.Message = ""
	})
}

func (w *Widget) schedule(ctx context.Context) {
	sample := w.newTicker(w.interval)
	defer sample.Stop()
	second := w.newTicker(time.Second)
	defer second.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sample.C():
			w.mu.Lock()
			if w.phase == phaseMounted {
				w.startProbeLocked(ctx)
			}
			w.mu.Unlock()
		case <-second.C():
			w.update(func(s *Snapshot) {
				s.Network.Countdown = w.countdown.Tick()
			})
		}
	}
}

// startProbeLocked launches a network probe unless one is in flight. The
// caller holds w.mu.
func (w *Widget) startProbeLocked(ctx context.Context) {
	if w.probing {
		w.logger.Debug("network probe still running, skipping tick", logging.String(logging.FieldProbe, "network"))
		return
	}
	w.probing = true
	w.snap.Network.Probing = true
	w.spawn(func() { w.probe(ctx) })
}

func (w *Widget) probe(ctx context.Context) {
	bps, err := w.estimator.Estimate(ctx)
	if ctx.Err() != nil {
		w.mu.Lock()
		w.probing = false
		w.mu.Unlock()
		return
	}

	var sample netspeed.Sample
	if err != nil {
		logging.WarnWithContext(w.logger, "network speed check failed", "network_probe_failed",
			logging.String(logging.FieldProbe, "network"),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check connectivity or network.probe_url"),
			logging.String(logging.FieldImpact, "network speed shows Error until the next sample"),
		)
		sample = netspeed.ErrorSample(err, w.now())
	} else {
		sample = netspeed.NewSample(bps, w.now())
		w.logger.Info("network speed sampled",
			logging.String(logging.FieldProbe, "network"),
			logging.String("value", sample.Value),
			logging.String("severity", string(sample.Severity)),
		)
	}

	w.update(func(s *Snapshot) {
		w.probing = false
		s.Network.State = ProbeReady
		s.Network.Sample = &sample
		s.Network.Probing = false
		s.Network.Samples++
		s.Network.Countdown = w.countdown.Reset()
	})
}
