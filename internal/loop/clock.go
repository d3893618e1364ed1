package loop

import "time"

// Clock abstracts wall-clock time so the scheduler's suspension point
// is explicit and testable without real delays.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
	// NewTicker returns a ticker firing every d.
	NewTicker(d time.Duration) Ticker
}

// Ticker is the minimal ticker surface the scheduler needs.
type Ticker interface {
	// C returns the tick channel.
	C() <-chan time.Time
	// Stop stops the ticker.
	Stop()
}

// realClock implements Clock with the time package.
type realClock struct{}

// NewRealClock returns a Clock backed by real wall-clock time.
func NewRealClock() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) NewTicker(d time.Duration) Ticker {
	return &realTicker{ticker: time.NewTicker(d)}
}

type realTicker struct {
	ticker *time.Ticker
}

func (t *realTicker) C() <-chan time.Time {
	return t.ticker.C
}

func (t *realTicker) Stop() {
	t.ticker.Stop()
}
