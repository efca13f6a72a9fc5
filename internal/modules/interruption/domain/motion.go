package domain

import (
	"math"
	"time"
)

type Sensor string

const (
	SensorAccelerometer Sensor = "accelerometer"
	SensorGyroscope     Sensor = "gyroscope"
)

// SensorSample is one reading of a three-axis sensor.
type SensorSample struct {
	Sensor Sensor
	Values [3]float64
	At     time.Time
}

// TotalDelta is the sum of absolute per-axis differences.
func TotalDelta(prev, cur [3]float64) float64 {
	return math.Abs(cur[0]-prev[0]) + math.Abs(cur[1]-prev[1]) + math.Abs(cur[2]-prev[2])
}

// MotionTracker compares each sample with the previous one from the same
// sensor. The first sample of a sensor only sets its baseline.
type MotionTracker struct {
	threshold float64
	last      map[Sensor][3]float64
}

func NewMotionTracker(threshold float64) *MotionTracker {
	return &MotionTracker{threshold: threshold, last: map[Sensor][3]float64{}}
}

// Observe records the sample and reports whether it moved past the threshold.
func (t *MotionTracker) Observe(sample SensorSample) bool {
	if sample.Sensor != SensorAccelerometer && sample.Sensor != SensorGyroscope {
		return false
	}
	prev, ok := t.last[sample.Sensor]
	t.last[sample.Sensor] = sample.Values
	if !ok {
		return false
	}
	return TotalDelta(prev, sample.Values) > t.threshold
}

func (t *MotionTracker) Reset() {
	t.last = map[Sensor][3]float64{}
}
