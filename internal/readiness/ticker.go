package readiness

import "time"

// Ticker delivers periodic ticks until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory creates tickers. Tests substitute a manual implementation.
type TickerFactory func(d time.Duration) Ticker

type realTicker struct {
	*time.Ticker
}

func (rt *realTicker) C() <-chan time.Time { return rt.Ticker.C }

// NewRealTicker is the TickerFactory backed by time.NewTicker.
func NewRealTicker(d time.Duration) Ticker {
	return &realTicker{time.NewTicker(d)}
}
