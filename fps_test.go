package facepipe

import (
	"math"
	"testing"
	"time"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func ms(n int) time.Time {
	return epoch.Add(time.Duration(n) * time.Millisecond)
}

func TestFrameRateEstimator(t *testing.T) {

	tests := []struct {
		name     string
		arrivals []int
		want     float64
	}{
		{"no arrivals", nil, -1},
		{"single arrival", []int{0}, -1},
		{"identical arrivals", []int{5, 5, 5}, -1},
		{"full window at 100ms", []int{0, 100, 200, 300, 400, 500, 600, 700}, 10},
		{"two arrivals", []int{0, 50}, 20},
		// the 10ms intervals fall out of the eight arrival window
		{"window eviction", []int{0, 10, 20, 30, 130, 230, 330, 430, 530, 630, 730}, 10},
	}

	for _, tc := range tests {
		e := NewFrameRateEstimator(DefaultFrameRateWindow)

		for _, a := range tc.arrivals {
			e.RecordArrival(ms(a))
		}

		if got := e.CurrentFPS(); math.Abs(got-tc.want) > 1e-6 {
			t.Errorf("%s: expected %f, got %f", tc.name, tc.want, got)
		}
	}
}

func TestFrameRateEstimatorReset(t *testing.T) {

	e := NewFrameRateEstimator(0)

	e.RecordArrival(ms(0))
	e.RecordArrival(ms(100))

	if math.Abs(e.CurrentFPS()-10) > 1e-6 {
		t.Fatalf("expected 10 fps before reset, got %f", e.CurrentFPS())
	}

	e.Reset()

	if e.CurrentFPS() != -1 {
		t.Errorf("expected sentinel after reset, got %f", e.CurrentFPS())
	}
}
