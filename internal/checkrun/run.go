package checkrun

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"meetcheck/internal/api"
	"meetcheck/internal/config"
	"meetcheck/internal/deps"
	"meetcheck/internal/logging"
	"meetcheck/internal/readiness"
)

// ErrAlreadyRunning reports that another session holds the device lock.
var ErrAlreadyRunning = errors.New("another meetcheck session is running")

// Options configures session runtime behavior.
type Options struct {
	// LogLevel overrides logging.level when set.
	LogLevel string
	// FileOnlyLogs keeps log records off stderr, for full-screen rendering.
	FileOnlyLogs bool
	// DisableAPI skips the status server even when paths.api_bind is set.
	DisableAPI bool
	Development bool
}

// Session is a mounted readiness widget with its supporting resources.
type Session struct {
	ID     string
	Config *config.Config
	Logger *slog.Logger
	Widget *readiness.Widget
	API    *api.Server

	lock *flock.Flock
}

// Start acquires the device lock and mounts a widget built from cfg.
func Start(ctx context.Context, cfg *config.Config, opts Options) (*Session, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	sessionID := uuid.NewString()
	logger, err := newLogger(cfg, opts, sessionID)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	lock := flock.New(cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrAlreadyRunning, cfg.LockPath())
	}

	logDependencySnapshot(logger, cfg)

	s := &Session{
		ID:     sessionID,
		Config: cfg,
		Logger: logger,
		Widget: readiness.New(WidgetOptions(cfg, logger)),
		lock:   lock,
	}
	if err := s.Widget.Mount(ctx); err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("mount widget: %w", err)
	}

	if !opts.DisableAPI {
		s.API = api.NewServer(cfg.Paths.APIBind, sessionID, s.Widget, logger)
		if err := s.API.Start(ctx); err != nil {
			logging.WarnWithContext(logger, "status api unavailable", "api_start_failed",
				logging.Error(err),
				logging.String("bind", cfg.Paths.APIBind),
				logging.String(logging.FieldErrorHint, "choose a free paths.api_bind address"),
				logging.String(logging.FieldImpact, "status api disabled for this session"),
			)
			s.API = nil
		}
	}

	logger.Info("meetcheck session started",
		logging.String(logging.FieldEventType, "session_started"),
		logging.String("lock", cfg.LockPath()),
	)
	return s, nil
}

// Close stops the status API, unmounts the widget and releases the lock.
func (s *Session) Close() {
	if s == nil {
		return
	}
	s.API.Stop()
	s.Widget.Unmount()
	if err := s.lock.Unlock(); err != nil {
		s.Logger.Warn("failed to release session lock", logging.Error(err))
	}
	s.Logger.Info("meetcheck session stopped", logging.String(logging.FieldEventType, "session_stopped"))
}

// Run starts a session, runs fn until it returns or SIGINT/SIGTERM arrives,
// then closes the session.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options, fn func(ctx context.Context, s *Session) error) error {
	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	s, err := Start(signalCtx, cfg, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	if fn == nil {
		<-signalCtx.Done()
		return nil
	}
	return fn(signalCtx, s)
}

func newLogger(cfg *config.Config, opts Options, sessionID string) (*slog.Logger, error) {
	level := cfg.Logging.Level
	if strings.TrimSpace(opts.LogLevel) != "" {
		level = opts.LogLevel
	}
	outputs := []string{"stderr", cfg.LogPath()}
	if opts.FileOnlyLogs {
		outputs = []string{cfg.LogPath()}
	}
	return logging.New(logging.Options{
		Level:       level,
		Format:      cfg.Logging.Format,
		OutputPaths: outputs,
		Development: opts.Development,
		SessionID:   sessionID,
	})
}

func logDependencySnapshot(logger *slog.Logger, cfg *config.Config) {
	if logger == nil || cfg == nil {
		return
	}
	player, err := deps.ResolvePlayer(cfg.Speaker.Player)
	logger.Info("dependency snapshot",
		logging.String(logging.FieldEventType, "dependency_snapshot"),
		logging.Bool("camera_enabled", cfg.Camera.Enabled),
		logging.String("camera_device", cfg.Camera.Device),
		logging.Bool("battery_enabled", cfg.Battery.Enabled),
		logging.Bool("battery_uevents", cfg.Battery.ListenUEvents),
		logging.Bool("speaker_enabled", cfg.Speaker.Enabled),
		logging.Bool("player_available", err == nil),
		logging.String("player_binary", player.Path),
		logging.Bool("network_enabled", cfg.Network.Enabled),
		logging.Int("network_trials", cfg.Network.Trials),
		logging.Duration("network_interval", cfg.ProbeInterval()),
	)
}
