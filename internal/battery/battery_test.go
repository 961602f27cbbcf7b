package battery

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pilebones/go-udev/netlink"

	"meetcheck/internal/config"
)

func writeSupply(t *testing.T, root, name string, files map[string]string) {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for file, content := range files {
		if err := os.WriteFile(filepath.Join(dir, file), []byte(content+"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestPercentRoundsAndClamps(t *testing.T) {
	tests := []struct {
		fraction float64
		want     int
	}{
		{0, 0},
		{1, 100},
		{0.5, 50},
		{0.874, 87},
		{0.875, 88},
		{0.005, 1},
		{0.0049, 0},
		{-0.2, 0},
		{1.7, 100},
		{math.NaN(), 0},
	}
	for _, tc := range tests {
		if got := Percent(tc.fraction); got != tc.want {
			t.Errorf("Percent(%v) = %d, want %d", tc.fraction, got, tc.want)
		}
	}
}

func TestPercentAlwaysWithinRange(t *testing.T) {
	for i := 0; i <= 1000; i++ {
		f := float64(i) / 1000
		got := Percent(f)
		if got < 0 || got > 100 {
			t.Fatalf("Percent(%v) = %d out of range", f, got)
		}
		if want := int(math.Round(f * 100)); got != want {
			t.Fatalf("Percent(%v) = %d, want %d", f, got, want)
		}
	}
}

func TestDiscoverSupplySkipsMainsAndPeripherals(t *testing.T) {
	root := t.TempDir()
	writeSupply(t, root, "AC", map[string]string{"type": "Mains"})
	writeSupply(t, root, "hidpp_battery_0", map[string]string{"type": "Battery", "scope": "Device", "capacity": "40"})
	writeSupply(t, root, "BAT1", map[string]string{"type": "Battery", "capacity": "77"})

	name, err := discoverSupply(root, "")
	if err != nil {
		t.Fatalf("discoverSupply returned error: %v", err)
	}
	if name != "BAT1" {
		t.Fatalf("expected BAT1, got %q", name)
	}
}

func TestDiscoverSupplyUnavailable(t *testing.T) {
	root := t.TempDir()
	writeSupply(t, root, "AC", map[string]string{"type": "Mains"})
	if _, err := discoverSupply(root, ""); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if _, err := discoverSupply(filepath.Join(root, "missing"), ""); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable for missing dir, got %v", err)
	}
	if _, err := discoverSupply(root, "BAT0"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable for missing named supply, got %v", err)
	}
}

func TestReadFractionSources(t *testing.T) {
	root := t.TempDir()
	writeSupply(t, root, "cap", map[string]string{"capacity": "64"})
	writeSupply(t, root, "energy", map[string]string{"energy_now": "30000000", "energy_full": "40000000"})
	writeSupply(t, root, "charge", map[string]string{"charge_now": "1000", "charge_full": "4000"})
	writeSupply(t, root, "broken", map[string]string{"energy_now": "10", "energy_full": "0"})

	tests := []struct {
		name string
		want float64
	}{
		{"cap", 0.64},
		{"energy", 0.75},
		{"charge", 0.25},
	}
	for _, tc := range tests {
		got, err := readFraction(filepath.Join(root, tc.name))
		if err != nil {
			t.Fatalf("%s: readFraction returned error: %v", tc.name, err)
		}
		if math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
	if _, err := readFraction(filepath.Join(root, "broken")); err == nil {
		t.Fatal("expected error for zero full counter")
	}
}

func TestSourceLevel(t *testing.T) {
	root := t.TempDir()
	writeSupply(t, root, "BAT0", map[string]string{"type": "Battery", "capacity": "82"})

	src := NewSource(config.Battery{PowerSupplyDir: root}, nil)
	level, err := src.Level(context.Background())
	if err != nil {
		t.Fatalf("Level returned error: %v", err)
	}
	if Percent(level) != 82 {
		t.Fatalf("expected 82%%, got %d", Percent(level))
	}
	if name, _ := src.Supply(); name != "BAT0" {
		t.Fatalf("unexpected supply %q", name)
	}
}

func TestSourceLevelUnavailable(t *testing.T) {
	src := NewSource(config.Battery{PowerSupplyDir: t.TempDir()}, nil)
	if _, err := src.Level(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

type fakeMonitor struct {
	started bool
	stopped int
	fn      func(float64)
}

func (f *fakeMonitor) Start(context.Context) error { f.started = true; return nil }
func (f *fakeMonitor) Stop()                       { f.stopped++ }
func (f *fakeMonitor) Subscribe(fn func(float64)) func() {
	f.fn = fn
	return func() { f.fn = nil }
}

func TestSourceSubscribeRegistersAndDeregisters(t *testing.T) {
	root := t.TempDir()
	writeSupply(t, root, "BAT0", map[string]string{"type": "Battery", "capacity": "50"})

	fake := &fakeMonitor{}
	src := NewSource(config.Battery{PowerSupplyDir: root, ListenUEvents: true}, nil)
	src.newMonitor = func(supply string, read func() (float64, error), logger *slog.Logger) eventMonitor {
		if supply != "BAT0" {
			t.Errorf("unexpected supply %q", supply)
		}
		return fake
	}

	var got []int
	cancel, err := src.Subscribe(context.Background(), func(f float64) { got = append(got, Percent(f)) })
	if err != nil {
		t.Fatalf("Subscribe returned error: %v", err)
	}
	if !fake.started {
		t.Fatal("expected monitor to start")
	}
	fake.fn(0.49)
	cancel()
	cancel()
	if fake.fn != nil {
		t.Fatal("expected observer to be deregistered")
	}
	if fake.stopped != 1 {
		t.Fatalf("expected one Stop, got %d", fake.stopped)
	}
	if len(got) != 1 || got[0] != 49 {
		t.Fatalf("unexpected notifications %v", got)
	}
}

func TestSourceSubscribeDisabled(t *testing.T) {
	root := t.TempDir()
	writeSupply(t, root, "BAT0", map[string]string{"type": "Battery", "capacity": "50"})
	src := NewSource(config.Battery{PowerSupplyDir: root, ListenUEvents: false}, nil)
	src.newMonitor = func(string, func() (float64, error), *slog.Logger) eventMonitor {
		t.Fatal("monitor must not be built when uevents are disabled")
		return nil
	}
	cancel, err := src.Subscribe(context.Background(), func(float64) {})
	if err != nil {
		t.Fatalf("Subscribe returned error: %v", err)
	}
	cancel()
}

func TestBuildMatcher(t *testing.T) {
	matcher := buildMatcher()
	change := netlink.UEvent{Action: netlink.CHANGE, Env: map[string]string{"SUBSYSTEM": "power_supply"}}
	if !matcher.Evaluate(change) {
		t.Error("expected matcher to accept power_supply change")
	}
	add := netlink.UEvent{Action: netlink.ADD, Env: map[string]string{"SUBSYSTEM": "power_supply"}}
	if matcher.Evaluate(add) {
		t.Error("expected matcher to reject add action")
	}
	block := netlink.UEvent{Action: netlink.CHANGE, Env: map[string]string{"SUBSYSTEM": "block"}}
	if matcher.Evaluate(block) {
		t.Error("expected matcher to reject other subsystems")
	}
}

func TestHandleEvent(t *testing.T) {
	t.Run("uses capacity from event", func(t *testing.T) {
		m := newNetlinkMonitor("BAT0", func() (float64, error) {
			t.Fatal("sysfs must not be read when the event carries capacity")
			return 0, nil
		}, nil)
		var got []int
		m.Subscribe(func(f float64) { got = append(got, Percent(f)) })
		m.handleEvent(netlink.UEvent{Action: netlink.CHANGE, Env: map[string]string{
			"POWER_SUPPLY_NAME":     "BAT0",
			"POWER_SUPPLY_CAPACITY": "61",
		}})
		if len(got) != 1 || got[0] != 61 {
			t.Fatalf("unexpected notifications %v", got)
		}
	})

	t.Run("falls back to sysfs and devpath", func(t *testing.T) {
		m := newNetlinkMonitor("BAT0", func() (float64, error) { return 0.33, nil }, nil)
		var got []int
		m.Subscribe(func(f float64) { got = append(got, Percent(f)) })
		m.handleEvent(netlink.UEvent{Action: netlink.CHANGE, Env: map[string]string{
			"DEVPATH": "/devices/LNXSYSTM:00/PNP0C0A:00/power_supply/BAT0",
		}})
		if len(got) != 1 || got[0] != 33 {
			t.Fatalf("unexpected notifications %v", got)
		}
	})

	t.Run("ignores other supplies", func(t *testing.T) {
		m := newNetlinkMonitor("BAT0", func() (float64, error) { return 1, nil }, nil)
		called := false
		m.Subscribe(func(float64) { called = true })
		m.handleEvent(netlink.UEvent{Action: netlink.CHANGE, Env: map[string]string{"POWER_SUPPLY_NAME": "AC"}})
		if called {
			t.Fatal("observer must not fire for another supply")
		}
	})

	t.Run("deregistered observers are not called", func(t *testing.T) {
		m := newNetlinkMonitor("BAT0", func() (float64, error) { return 1, nil }, nil)
		called := false
		cancel := m.Subscribe(func(float64) { called = true })
		cancel()
		m.handleEvent(netlink.UEvent{Action: netlink.CHANGE, Env: map[string]string{"POWER_SUPPLY_NAME": "BAT0"}})
		if called {
			t.Fatal("observer fired after deregistration")
		}
	})
}

func TestStopWithoutStartIsSafe(t *testing.T) {
	m := newNetlinkMonitor("BAT0", nil, nil)
	m.Stop()
	m.Stop()
}

func TestDrainMonitorUnblocksReader(t *testing.T) {
	queue := make(chan netlink.UEvent, 1)
	errs := make(chan error, 1)
	quit := make(chan struct{})

	// Behaves like the go-udev reader: events already read are sent without
	// checking quit, then the closed socket yields a final error.
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		<-quit
		for range 3 {
			queue <- netlink.UEvent{Action: netlink.CHANGE, Env: map[string]string{"POWER_SUPPLY_NAME": "BAT0"}}
		}
		errs <- errors.New("unable to read uevent: bad file descriptor")
	}()

	close(quit)
	drainMonitor(queue, errs, 200*time.Millisecond)

	select {
	case <-exited:
	case <-time.After(2 * time.Second):
		t.Fatal("reader still blocked after drain")
	}
}

func TestDrainMonitorStopsOnClosedQueue(t *testing.T) {
	queue := make(chan netlink.UEvent)
	close(queue)
	done := make(chan struct{})
	go func() {
		drainMonitor(queue, make(chan error), time.Minute)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("drain did not stop on closed queue")
	}
}
