package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"focusfarm/internal/modules/interruption/domain"
)

func TestCooldownIsStrict(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	c := domain.NewCooldown(time.Second)

	assert.True(t, c.Allow(t0))
	assert.False(t, c.Allow(t0.Add(500*time.Millisecond)))
	assert.False(t, c.Allow(t0.Add(time.Second)))
	assert.True(t, c.Allow(t0.Add(time.Second+time.Millisecond)))

	c.Reset()
	assert.True(t, c.Allow(t0.Add(time.Second+2*time.Millisecond)))
}

func TestMotionTrackerPrimesPerSensor(t *testing.T) {
	tr := domain.NewMotionTracker(1.5)

	assert.False(t, tr.Observe(domain.SensorSample{Sensor: domain.SensorAccelerometer, Values: [3]float64{0, 0, 9.8}}))
	assert.False(t, tr.Observe(domain.SensorSample{Sensor: domain.SensorGyroscope, Values: [3]float64{5, 5, 5}}))
	assert.False(t, tr.Observe(domain.SensorSample{Sensor: domain.SensorAccelerometer, Values: [3]float64{0.5, 0.5, 10.3}}))
	assert.True(t, tr.Observe(domain.SensorSample{Sensor: domain.SensorAccelerometer, Values: [3]float64{1.1, 1.1, 10.3}}))
	assert.False(t, tr.Observe(domain.SensorSample{Sensor: "magnetometer", Values: [3]float64{90, 90, 90}}))

	tr.Reset()
	assert.False(t, tr.Observe(domain.SensorSample{Sensor: domain.SensorGyroscope, Values: [3]float64{50, 50, 50}}))
}

func TestTotalDelta(t *testing.T) {
	assert.InDelta(t, 1.5, domain.TotalDelta([3]float64{1, 1, 1}, [3]float64{1.5, 0.5, 1.5}), 1e-9)
}

func TestActivityCounter(t *testing.T) {
	var c domain.ActivityCounter
	c.Started()
	c.Started()
	assert.False(t, c.Stopped(false))
	assert.False(t, c.Stopped(true), "configuration change never backgrounds")

	c.Started()
	assert.True(t, c.Stopped(false))
	assert.True(t, c.Stopped(false))
	assert.Equal(t, 0, c.Count())
}

func TestForegroundTracker(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	tr := domain.NewForegroundTracker("focusfarm")

	_, ok := tr.Observe(nil)
	assert.False(t, ok)

	_, ok = tr.Observe([]domain.UsageStat{{Package: "focusfarm", LastUsed: t0}, {Package: "browser", LastUsed: t0.Add(-time.Second)}})
	assert.False(t, ok, "own app in front")

	pkg, ok := tr.Observe([]domain.UsageStat{{Package: "focusfarm", LastUsed: t0}, {Package: "browser", LastUsed: t0.Add(time.Second)}})
	assert.True(t, ok)
	assert.Equal(t, "browser", pkg)

	_, ok = tr.Observe([]domain.UsageStat{{Package: "browser", LastUsed: t0.Add(2 * time.Second)}})
	assert.False(t, ok, "same package is reported once")
}

func TestForegroundTrackerTreatsStartingAppAsOwn(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	tr := domain.NewForegroundTracker("focusfarm")

	_, ok := tr.Observe([]domain.UsageStat{{Package: "xterm", LastUsed: t0}})
	assert.False(t, ok, "the terminal we were started in")
	_, ok = tr.Observe([]domain.UsageStat{{Package: "xterm", LastUsed: t0.Add(time.Second)}})
	assert.False(t, ok)

	pkg, ok := tr.Observe([]domain.UsageStat{{Package: "browser", LastUsed: t0.Add(2 * time.Second)}})
	assert.True(t, ok)
	assert.Equal(t, "browser", pkg)

	_, ok = tr.Observe([]domain.UsageStat{{Package: "xterm", LastUsed: t0.Add(3 * time.Second)}})
	assert.False(t, ok, "coming back is not an interruption")

	tr.Reset()
	_, ok = tr.Observe([]domain.UsageStat{{Package: "browser", LastUsed: t0.Add(4 * time.Second)}})
	assert.False(t, ok, "a new run takes a new baseline")
	_, ok = tr.Observe([]domain.UsageStat{{Package: "mail", LastUsed: t0.Add(5 * time.Second)}})
	assert.True(t, ok)
}
