package checkrun

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"meetcheck/internal/battery"
	"meetcheck/internal/camera"
	"meetcheck/internal/config"
	"meetcheck/internal/deps"
	"meetcheck/internal/netspeed"
	"meetcheck/internal/readiness"
	"meetcheck/internal/speaker"
)

// WidgetOptions builds readiness options from config. Disabled probes are
// left nil so the widget reports them as disabled.
func WidgetOptions(cfg *config.Config, logger *slog.Logger) readiness.Options {
	opts := readiness.Options{
		Interval: cfg.ProbeInterval(),
		Logger:   logger,
	}
	if cfg.Camera.Enabled {
		opts.Camera = camera.NewDevice(cfg.Camera.Device)
	}
	if cfg.Battery.Enabled {
		opts.Battery = battery.NewSource(cfg.Battery, logger)
	}
	if cfg.Speaker.Enabled {
		opts.Audio = audioFactory(cfg.Speaker, cfg.ToneDuration(), logger)
	}
	if cfg.Network.Enabled {
		opts.Estimator = netspeed.NewDownloadEstimator(cfg.Network, logger)
	}
	return opts
}

func audioFactory(cfg config.Speaker, tone time.Duration, logger *slog.Logger) readiness.AudioFactory {
	return func(ctx context.Context) (speaker.Audio, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		player, err := deps.ResolvePlayer(cfg.Player)
		if err != nil {
			return nil, err
		}
		clip, err := speaker.PrepareClip(cfg.ClipPath, tone, cfg.ToneFrequency)
		if err != nil {
			return nil, fmt.Errorf("prepare test clip: %w", err)
		}
		return speaker.NewProcessAudio(player, clip, logger), nil
	}
}
