package engine

import "time"

// Ticker is the part of time.Ticker the session loop uses.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// NewTickerFunc creates a Ticker firing every d.
type NewTickerFunc func(d time.Duration) Ticker

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// NewTimeTicker wraps time.NewTicker.
func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}
