package battery

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"meetcheck/internal/config"
	"meetcheck/internal/logging"
)

// Source reads the host battery level from sysfs and delivers level-change
// notifications from udev.
type Source struct {
	dir    string
	supply string
	listen bool
	logger *slog.Logger

	mu       sync.Mutex
	resolved string

	// newMonitor is replaced in tests to avoid opening a netlink socket.
	newMonitor func(supply string, read func() (float64, error), logger *slog.Logger) eventMonitor
}

type eventMonitor interface {
	Start(ctx context.Context) error
	Stop()
	Subscribe(fn func(float64)) (cancel func())
}

// NewSource builds a battery source from configuration.
func NewSource(cfg config.Battery, logger *slog.Logger) *Source {
	return &Source{
		dir:    strings.TrimSpace(cfg.PowerSupplyDir),
		supply: strings.TrimSpace(cfg.Supply),
		listen: cfg.ListenUEvents,
		logger: logging.NewComponentLogger(logger, "battery"),
	}
}

// Supply returns the resolved power supply name, discovering it on first use.
func (s *Source) Supply() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.resolved != "" {
		return s.resolved, nil
	}
	name, err := discoverSupply(s.dir, s.supply)
	if err != nil {
		return "", err
	}
	s.resolved = name
	return name, nil
}

// Level reports the current charge as a fraction of full (0.0-1.0).
// It returns ErrUnavailable when the host has no battery.
func (s *Source) Level(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	name, err := s.Supply()
	if err != nil {
		return 0, err
	}
	return readFraction(filepath.Join(s.dir, name))
}

// Subscribe registers fn for level-change notifications until the returned
// cancel function is called or ctx ends. When uevents are disabled or the
// netlink socket is unavailable, fn is never called and cancel is a no-op.
func (s *Source) Subscribe(ctx context.Context, fn func(float64)) (func(), error) {
	name, err := s.Supply()
	if err != nil {
		return func() {}, err
	}
	if !s.listen || fn == nil {
		return func() {}, nil
	}

	read := func() (float64, error) { return readFraction(filepath.Join(s.dir, name)) }
	build := s.newMonitor
	if build == nil {
		build = func(supply string, read func() (float64, error), logger *slog.Logger) eventMonitor {
			return newNetlinkMonitor(supply, read, logger)
		}
	}
	monitor := build(name, read, s.logger)
	unsubscribe := monitor.Subscribe(fn)
	if err := monitor.Start(ctx); err != nil {
		unsubscribe()
		return func() {}, fmt.Errorf("start battery monitor: %w", err)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			unsubscribe()
			monitor.Stop()
		})
	}, nil
}
