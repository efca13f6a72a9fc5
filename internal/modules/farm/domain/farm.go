package domain

import (
	"strings"
	"time"
)

type Family string

const (
	FamilyChicken Family = "chicken"
	FamilyCat     Family = "cat"
	FamilyDog     Family = "dog"
)

// FamilyOf maps an animal type such as "cat_tabby" to its family.
func FamilyOf(animalType string) Family {
	for _, f := range []Family{FamilyChicken, FamilyCat, FamilyDog} {
		if animalType == string(f) || strings.HasPrefix(animalType, string(f)+"_") {
			return f
		}
	}
	return ""
}

type FamilyCounts struct {
	Chickens int
	Cats     int
	Dogs     int
}

func (c FamilyCounts) Total() int {
	return c.Chickens + c.Cats + c.Dogs
}

func (c *FamilyCounts) Add(f Family) {
	switch f {
	case FamilyChicken:
		c.Chickens++
	case FamilyCat:
		c.Cats++
	case FamilyDog:
		c.Dogs++
	}
}

// SessionTotals aggregates persisted sessions. Focus figures only count
// successful sessions.
type SessionTotals struct {
	Sessions    int
	Successful  int
	Interrupted int
	TotalFocus  time.Duration
	Longest     time.Duration
}

func (t SessionTotals) AverageFocus() time.Duration {
	if t.Successful == 0 {
		return 0
	}
	return t.TotalFocus / time.Duration(t.Successful)
}

type Stats struct {
	Totals  SessionTotals
	Animals FamilyCounts
}

type SessionSummary struct {
	ID        string
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	Result    string
	Reason    string
}

type Animal struct {
	ID        string
	Type      string
	Family    Family
	CreatedAt time.Time
}

// Cycle is the snapshot written when the farm is reset.
type Cycle struct {
	ID            string
	Start         time.Time
	End           time.Time
	CycleType     string
	TotalSessions int
	TotalDuration time.Duration
	Counts        FamilyCounts
	Reason        string
	CreatedAt     time.Time
}

const DefaultResetReason = "manual reset"
