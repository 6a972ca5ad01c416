package result

import (
	"time"

	"go.uber.org/zap/zapcore"
)

// Measure holds the time the engine spent in each stage of a run along
// with its own throughput estimate
type Measure struct {
	Aligner            time.Duration
	Detector           time.Duration
	Estimator          time.Duration
	Landmarker         time.Duration
	MaskDetector       time.Duration
	Recognizer         time.Duration
	SmootherDetector   time.Duration
	SmootherLandmarker time.Duration
	SpoofingDetector   time.Duration
	Tracker            time.Duration
	// NativeFPS is the engine's reported frames per second
	NativeFPS float64
}

// Stage is a named stage duration
type Stage struct {
	Name     string
	Duration time.Duration
}

// Stages returns the per stage durations in a stable order
func (m Measure) Stages() []Stage {
	return []Stage{
		{"aligner", m.Aligner},
		{"detector", m.Detector},
		{"estimator", m.Estimator},
		{"landmarker", m.Landmarker},
		{"maskDetector", m.MaskDetector},
		{"recognizer", m.Recognizer},
		{"smootherDetector", m.SmootherDetector},
		{"smootherLandmarker", m.SmootherLandmarker},
		{"spoofingDetector", m.SpoofingDetector},
		{"tracker", m.Tracker},
	}
}

// Total returns the sum of all stage durations
func (m Measure) Total() time.Duration {
	var total time.Duration
	for _, s := range m.Stages() {
		total += s.Duration
	}
	return total
}

// MarshalLogObject writes the measure as a zap object in milliseconds
func (m Measure) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	for _, s := range m.Stages() {
		enc.AddFloat64(s.Name, Millis(s.Duration))
	}
	enc.AddFloat64("totalFps", m.NativeFPS)
	return nil
}

// Millis converts a duration to fractional milliseconds
func Millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
