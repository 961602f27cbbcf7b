package battery

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pilebones/go-udev/netlink"

	"meetcheck/internal/logging"
)

// monitorDrainGrace bounds how long Stop keeps draining the reader.
const monitorDrainGrace = 100 * time.Millisecond

// netlinkMonitor listens for udev power_supply change events and forwards the
// new charge level of one supply to registered observers.
type netlinkMonitor struct {
	supply string
	read   func() (float64, error)
	logger *slog.Logger

	mu        sync.Mutex
	conn      *netlink.UEventConn
	quit      chan struct{}
	done      chan struct{}
	running   bool
	observers map[int]func(float64)
	nextID    int
}

func newNetlinkMonitor(supply string, read func() (float64, error), logger *slog.Logger) *netlinkMonitor {
	return &netlinkMonitor{
		supply:    supply,
		read:      read,
		logger:    logging.NewComponentLogger(logger, "battery-monitor"),
		observers: make(map[int]func(float64)),
	}
}

// Subscribe registers fn and returns its deregistration.
func (m *netlinkMonitor) Subscribe(fn func(float64)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.observers[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.observers, id)
		m.mu.Unlock()
	}
}

// Start begins listening for udev netlink events. A socket failure is logged
// and tolerated: the level stays at its initial reading.
func (m *netlinkMonitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		logging.WarnWithContext(m.logger, "failed to connect to netlink socket; battery level will not update live",
			"battery_netlink_connect_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "ensure the process may open NETLINK_KOBJECT_UEVENT sockets"),
			logging.String(logging.FieldImpact, "battery percentage frozen at startup value"),
		)
		return nil
	}

	m.conn = conn
	m.quit = make(chan struct{})
	m.done = make(chan struct{})
	m.running = true

	go m.monitorLoop(ctx, conn, m.quit, m.done)

	m.logger.Debug("battery monitor started", logging.String("supply", m.supply))
	return nil
}

// Stop shuts down the monitor and waits for the event loop to exit.
func (m *netlinkMonitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	close(m.quit)
	done := m.done
	m.conn = nil
	m.quit = nil
	m.running = false
	m.mu.Unlock()

	<-done
	m.logger.Debug("battery monitor stopped", logging.String("supply", m.supply))
}

func (m *netlinkMonitor) monitorLoop(ctx context.Context, conn *netlink.UEventConn, quit <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	queue := make(chan netlink.UEvent, 1)
	errs := make(chan error, 1)
	monitorQuit := conn.Monitor(queue, errs, buildMatcher())
	defer func() {
		close(monitorQuit)
		_ = conn.Close()
		drainMonitor(queue, errs, monitorDrainGrace)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-quit:
			return
		case uevent := <-queue:
			m.handleEvent(uevent)
		case err := <-errs:
			m.logger.Debug("netlink monitor error", logging.Error(err))
		}
	}
}

// drainMonitor consumes events the go-udev reader is still delivering after
// its quit channel closed, so a pending send cannot leave it blocked. The
// reader's final error after the socket closes lands in the errs buffer.
func drainMonitor(queue <-chan netlink.UEvent, errs <-chan error, grace time.Duration) {
	timer := time.NewTimer(grace)
	defer timer.Stop()
	for {
		select {
		case _, ok := <-queue:
			if !ok {
				return
			}
		case <-errs:
		case <-timer.C:
			return
		}
	}
}

// buildMatcher matches SUBSYSTEM=power_supply, ACTION=change.
func buildMatcher() netlink.Matcher {
	action := "change"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM": "power_supply",
		},
	})
	return rules
}

func (m *netlinkMonitor) handleEvent(uevent netlink.UEvent) {
	name := supplyName(uevent)
	if name != m.supply {
		return
	}

	fraction, ok := eventFraction(uevent)
	if !ok {
		var err error
		fraction, err = m.read()
		if err != nil {
			m.logger.Debug("re-read battery level failed", logging.Error(err))
			return
		}
	}

	m.mu.Lock()
	observers := make([]func(float64), 0, len(m.observers))
	for _, fn := range m.observers {
		observers = append(observers, fn)
	}
	m.mu.Unlock()

	for _, fn := range observers {
		fn(fraction)
	}
}

func supplyName(uevent netlink.UEvent) string {
	if name := strings.TrimSpace(uevent.Env["POWER_SUPPLY_NAME"]); name != "" {
		return name
	}
	devpath := strings.TrimRight(uevent.Env["DEVPATH"], "/")
	if devpath == "" {
		devpath = strings.TrimRight(uevent.KObj, "/")
	}
	if idx := strings.LastIndex(devpath, "/"); idx >= 0 {
		return devpath[idx+1:]
	}
	return devpath
}

func eventFraction(uevent netlink.UEvent) (float64, bool) {
	raw := strings.TrimSpace(uevent.Env["POWER_SUPPLY_CAPACITY"])
	if raw == "" {
		return 0, false
	}
	capacity, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return clampFraction(capacity / 100), true
}
