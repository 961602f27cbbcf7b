package netspeed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"meetcheck/internal/config"
	"meetcheck/internal/logging"
)

const userAgent = "meetcheck/0.1.0"

// Estimator measures throughput in bits per second.
type Estimator interface {
	Estimate(ctx context.Context) (float64, error)
}

// DownloadEstimator averages the rate of sequential full downloads of URL.
type DownloadEstimator struct {
	URL     string
	Trials  int
	Timeout time.Duration
	Client  *http.Client

	logger *slog.Logger
	now    func() time.Time
}

// NewDownloadEstimator builds an estimator from network configuration.
func NewDownloadEstimator(cfg config.Network, logger *slog.Logger) *DownloadEstimator {
	return &DownloadEstimator{
		URL:     strings.TrimSpace(cfg.ProbeURL),
		Trials:  cfg.Trials,
		Timeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		Client:  &http.Client{},
		logger:  logging.NewComponentLogger(logger, "netspeed"),
		now:     time.Now,
	}
}

// Estimate implements Estimator. The first failing trial aborts the probe.
func (e *DownloadEstimator) Estimate(ctx context.Context) (float64, error) {
	if e.URL == "" {
		return 0, errors.New("probe url not configured")
	}
	trials := e.Trials
	if trials <= 0 {
		trials = 1
	}
	logger := e.logger
	if logger == nil {
		logger = logging.NewComponentLogger(nil, "netspeed")
	}

	var total float64
	for i := 0; i < trials; i++ {
		rate, err := e.trial(ctx)
		if err != nil {
			return 0, fmt.Errorf("trial %d/%d: %w", i+1, trials, err)
		}
		logger.Debug("network trial complete",
			logging.String(logging.FieldProbe, "network"),
			logging.Int("trial", i+1),
			logging.Float64("bits_per_second", rate),
		)
		total += rate
	}
	return total / float64(trials), nil
}

func (e *DownloadEstimator) trial(ctx context.Context) (float64, error) {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.URL, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Cache-Control", "no-cache")

	client := e.Client
	if client == nil {
		client = http.DefaultClient
	}
	now := e.now
	if now == nil {
		now = time.Now
	}

	start := now()
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return 0, fmt.Errorf("download: unexpected status %s", resp.Status)
	}
	n, err := io.Copy(io.Discard, resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read body: %w", err)
	}
	elapsed := now().Sub(start)
	if elapsed <= 0 {
		elapsed = time.Nanosecond
	}
	return float64(n*8) / elapsed.Seconds(), nil
}
