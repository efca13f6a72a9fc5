package domain

import (
	"fmt"
	"time"
)

const (
	TestModeBase         = 10 * time.Second
	DefaultStageDuration = 15 * time.Minute
	MinStageDuration     = 5 * time.Minute
	MaxStageDuration     = 60 * time.Minute
)

// Preferences are the settings the timer consults at each decision point.
type Preferences struct {
	StageDuration time.Duration
	AllowPause    bool
	TestMode      bool
}

func DefaultPreferences() Preferences {
	return Preferences{StageDuration: DefaultStageDuration}
}

// Thresholds are the elapsed times at which the chicken, cat and dog
// families are reached.
type Thresholds struct {
	Tier1 time.Duration
	Tier2 time.Duration
	Tier3 time.Duration
}

func ThresholdsFor(p Preferences) Thresholds {
	base := p.StageDuration
	if p.TestMode {
		base = TestModeBase
	}
	if base <= 0 {
		base = DefaultStageDuration
	}
	return Thresholds{Tier1: base, Tier2: 2 * base, Tier3: 3 * base}
}

func (t Thresholds) Valid() bool {
	return t.Tier1 > 0 && t.Tier1 < t.Tier2 && t.Tier2 < t.Tier3
}

// Counts is the reward per family.
type Counts struct {
	Dogs     int
	Cats     int
	Chickens int
}

func (c Counts) Total() int {
	return c.Dogs + c.Cats + c.Chickens
}

// Weighted is the duration the counts account for.
func (c Counts) Weighted(t Thresholds) time.Duration {
	return time.Duration(c.Dogs)*t.Tier3 + time.Duration(c.Cats)*t.Tier2 + time.Duration(c.Chickens)*t.Tier1
}

// ComputeAnimalCounts decomposes the duration greedily, largest tier first.
func ComputeAnimalCounts(d time.Duration, t Thresholds) Counts {
	if d < 0 || t.Tier1 <= 0 || t.Tier2 <= 0 || t.Tier3 <= 0 {
		return Counts{}
	}
	remaining := d
	dogs := remaining / t.Tier3
	remaining %= t.Tier3
	cats := remaining / t.Tier2
	remaining %= t.Tier2
	chickens := remaining / t.Tier1
	return Counts{Dogs: int(dogs), Cats: int(cats), Chickens: int(chickens)}
}

func ResultFor(d time.Duration, t Thresholds) Result {
	if t.Tier1 > 0 && d >= t.Tier1 {
		return ResultSuccess
	}
	return ResultInterrupted
}

// ProgressAt is the fraction of the way from the previous tier to the next.
func ProgressAt(elapsed time.Duration, t Thresholds) float64 {
	if elapsed <= 0 || !t.Valid() {
		return 0
	}
	switch {
	case elapsed < t.Tier1:
		return float64(elapsed) / float64(t.Tier1)
	case elapsed < t.Tier2:
		return float64(elapsed-t.Tier1) / float64(t.Tier2-t.Tier1)
	case elapsed < t.Tier3:
		return float64(elapsed-t.Tier2) / float64(t.Tier3-t.Tier2)
	default:
		return 1
	}
}

// RemainingAt is the time left until the next tier, zero past the last one.
func RemainingAt(elapsed time.Duration, t Thresholds) time.Duration {
	if elapsed < 0 {
		elapsed = 0
	}
	switch {
	case elapsed < t.Tier1:
		return t.Tier1 - elapsed
	case elapsed < t.Tier2:
		return t.Tier2 - elapsed
	case elapsed < t.Tier3:
		return t.Tier3 - elapsed
	default:
		return 0
	}
}

// FormatRemaining renders d as mm:ss, rounding up to the next second.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
