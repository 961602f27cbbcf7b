package readiness

import (
	"context"
	"sync"
	"testing"
	"time"

	"meetcheck/internal/camera"
)

type fakeTicker struct {
	d       time.Duration
	c       chan time.Time
	mu      sync.Mutex
	stopped bool
}

func (f *fakeTicker) C() <-chan time.Time { return f.c }

func (f *fakeTicker) Stop() {
	f.mu.Lock()
	f.stopped = true
	f.mu.Unlock()
}

func (f *fakeTicker) isStopped() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}

// fire delivers one tick, failing the test if nothing receives it.
func (f *fakeTicker) fire(t *testing.T) {
	t.Helper()
	select {
	case f.c <- time.Now():
	case <-time.After(2 * time.Second):
		t.Fatalf("ticker %v not consumed", f.d)
	}
}

type fakeClock struct {
	mu      sync.Mutex
	tickers map[time.Duration]*fakeTicker
}

func newFakeClock() *fakeClock {
	return &fakeClock{tickers: make(map[time.Duration]*fakeTicker)}
}

func (c *fakeClock) NewTicker(d time.Duration) Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	tk := &fakeTicker{d: d, c: make(chan time.Time)}
	c.tickers[d] = tk
	return tk
}

func (c *fakeClock) ticker(t *testing.T, d time.Duration) *fakeTicker {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		c.mu.Lock()
		tk := c.tickers[d]
		c.mu.Unlock()
		if tk != nil {
			return tk
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("ticker %v never created", d)
	return nil
}

type estimateResult struct {
	bps float64
	err error
}

type fakeEstimator struct {
	mu      sync.Mutex
	calls   int
	results []estimateResult
	gate    chan struct{}
}

func (f *fakeEstimator) Estimate(ctx context.Context) (float64, error) {
	f.mu.Lock()
	f.calls++
	res := estimateResult{bps: 5e7}
	if len(f.results) > 0 {
		res = f.results[0]
		if len(f.results) > 1 {
			f.results = f.results[1:]
		}
	}
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	return res.bps, res.err
}

func (f *fakeEstimator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeStream struct {
	mu     sync.Mutex
	closed bool
}

func (s *fakeStream) Info() camera.Info {
	return camera.Info{Path: "/dev/video0", Driver: "uvcvideo", Card: "Integrated Camera"}
}

func (s *fakeStream) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

func (s *fakeStream) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

type fakeCamera struct {
	stream *fakeStream
	err    error
}

func (f *fakeCamera) Acquire(ctx context.Context) (camera.Stream, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.stream, nil
}

type fakeBattery struct {
	level float64
	err   error

	mu        sync.Mutex
	fn        func(float64)
	cancelled bool
}

func (f *fakeBattery) Level(ctx context.Context) (float64, error) { return f.level, f.err }

func (f *fakeBattery) Subscribe(ctx context.Context, fn func(float64)) (func(), error) {
	f.mu.Lock()
	f.fn = fn
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		f.cancelled = true
		f.mu.Unlock()
	}, nil
}

func (f *fakeBattery) emit(level float64) {
	f.mu.Lock()
	fn := f.fn
	f.mu.Unlock()
	if fn != nil {
		fn(level)
	}
}

func (f *fakeBattery) isCancelled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cancelled
}

type fakeAudio struct {
	mu      sync.Mutex
	playing bool
	plays   int
	closed  bool
	onEnded func()
}

func (f *fakeAudio) Rewind() {}

func (f *fakeAudio) Play() error {
	f.mu.Lock()
	f.playing = true
	f.plays++
	f.mu.Unlock()
	return nil
}

func (f *fakeAudio) Pause() {
	f.mu.Lock()
	f.playing = false
	f.mu.Unlock()
}

func (f *fakeAudio) OnEnded(fn func()) {
	f.mu.Lock()
	f.onEnded = fn
	f.mu.Unlock()
}

func (f *fakeAudio) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

func (f *fakeAudio) end() {
	f.mu.Lock()
	f.playing = false
	fn := f.onEnded
	f.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (f *fakeAudio) playCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.plays
}

func (f *fakeAudio) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func waitFor(t *testing.T, w *Widget, desc string, cond func(Snapshot) bool) Snapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		snap := w.Snapshot()
		if cond(snap) {
			return snap
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s; last snapshot %+v", desc, snap)
		}
		time.Sleep(2 * time.Millisecond)
	}
}
