package preflight

import (
	"context"

	"golang.org/x/sync/errgroup"

	"meetcheck/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name    string
	Passed  bool
	Skipped bool
	Detail  string
}

// RunAll executes all applicable preflight checks concurrently for the given
// config. Results keep a stable order regardless of completion order.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	checks := []func(context.Context) Result{
		func(context.Context) Result { return CheckDirectoryAccess("Log directory", cfg.Paths.LogDir) },
		func(context.Context) Result {
			if !cfg.Camera.Enabled {
				return skipped("Webcam")
			}
			return CheckCaptureDevice(cfg.Camera.Device)
		},
		func(ctx context.Context) Result {
			if !cfg.Battery.Enabled {
				return skipped("Battery")
			}
			return CheckBattery(ctx, cfg.Battery)
		},
		func(context.Context) Result {
			if !cfg.Speaker.Enabled {
				return skipped("Audio player")
			}
			return CheckAudioPlayer(cfg.Speaker.Player)
		},
		func(context.Context) Result {
			if !cfg.Speaker.Enabled || cfg.Speaker.ClipPath == "" {
				return skipped("Test clip")
			}
			return CheckClip(cfg.Speaker.ClipPath)
		},
		func(ctx context.Context) Result {
			if !cfg.Network.Enabled {
				return skipped("Probe URL")
			}
			return CheckProbeURL(ctx, cfg.Network.ProbeURL, cfg.RequestTimeout())
		},
	}

	results := make([]Result, len(checks))
	g, gctx := errgroup.WithContext(ctx)
	for i, check := range checks {
		g.Go(func() error {
			results[i] = check(gctx)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Failed reports whether any non-skipped result failed.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed && !r.Skipped {
			return true
		}
	}
	return false
}

func skipped(name string) Result {
	return Result{Name: name, Skipped: true, Detail: "Disabled"}
}
