package facepipe

import (
	"sync"
	"time"
)

// DefaultFrameRateWindow is the number of arrivals averaged by a
// FrameRateEstimator
const DefaultFrameRateWindow = 8

// FrameRateEstimator estimates the delivered frame rate from a moving
// window of frame arrival times
type FrameRateEstimator struct {
	mu sync.Mutex
	// window is the maximum number of arrivals kept
	window int
	// stamps of the most recent arrivals, oldest first
	stamps []time.Time
}

// NewFrameRateEstimator returns an estimator over the given window size.
// Sizes below 2 use DefaultFrameRateWindow.
func NewFrameRateEstimator(window int) *FrameRateEstimator {
	if window < 2 {
		window = DefaultFrameRateWindow
	}

	return &FrameRateEstimator{
		window: window,
		stamps: make([]time.Time, 0, window),
	}
}

// RecordArrival adds an arrival time, evicting the oldest once the window
// is full
func (e *FrameRateEstimator) RecordArrival(t time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stamps = append(e.stamps, t)

	if len(e.stamps) > e.window {
		e.stamps = e.stamps[1:]
	}
}

// CurrentFPS returns the frames per second over the window, or -1 while
// fewer than two arrivals are known or no time has elapsed between them
func (e *FrameRateEstimator) CurrentFPS() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := len(e.stamps)

	if n < 2 {
		return -1
	}

	span := e.stamps[n-1].Sub(e.stamps[0])

	if span <= 0 {
		return -1
	}

	// n arrivals span n-1 intervals
	interval := span.Seconds() / float64(n-1)

	return 1 / interval
}

// Reset forgets all arrivals
func (e *FrameRateEstimator) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stamps = e.stamps[:0]
}
