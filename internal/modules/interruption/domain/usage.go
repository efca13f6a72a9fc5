package domain

import "time"

// UsageStat is one entry of the platform's app usage accounting.
type UsageStat struct {
	Package  string
	LastUsed time.Time
}

// MostRecent returns the package with the latest LastUsed timestamp.
func MostRecent(stats []UsageStat) (string, bool) {
	var (
		best     string
		bestTime time.Time
		found    bool
	)
	for _, stat := range stats {
		if stat.Package == "" {
			continue
		}
		if !found || stat.LastUsed.After(bestTime) {
			best, bestTime, found = stat.Package, stat.LastUsed, true
		}
	}
	return best, found
}

// ForegroundTracker remembers the last foreign package seen in front. The
// first package observed after Reset is where the session was started,
// usually the terminal hosting us, and counts as our own from then on.
type ForegroundTracker struct {
	own    string
	home   string
	primed bool
	last   string
}

func NewForegroundTracker(own string) *ForegroundTracker {
	return &ForegroundTracker{own: own}
}

// Observe returns the foreground package when it is neither ours nor the
// starting one and differs from the previously observed one.
func (t *ForegroundTracker) Observe(stats []UsageStat) (string, bool) {
	pkg, ok := MostRecent(stats)
	if !ok {
		return "", false
	}
	if !t.primed {
		t.primed = true
		t.home = pkg
		return "", false
	}
	if pkg == t.own || pkg == t.home || pkg == t.last {
		return "", false
	}
	t.last = pkg
	return pkg, true
}

func (t *ForegroundTracker) Reset() {
	t.home = ""
	t.primed = false
	t.last = ""
}
