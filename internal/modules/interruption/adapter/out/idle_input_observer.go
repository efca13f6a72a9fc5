package out

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"focusfarm/internal/platform/clock"
	apperrors "focusfarm/internal/platform/errors"
)

const idlePollInterval = 250 * time.Millisecond

// IdleInputObserver detects desktop-wide keyboard and pointer input by
// polling the X11 idle counter. Input happened whenever the counter is
// smaller than the poll interval.
type IdleInputObserver struct {
	path     string
	interval time.Duration
	clock    clock.Clock
	run      CommandRunner
}

func NewIdleInputObserver(clk clock.Clock) (*IdleInputObserver, error) {
	path, err := exec.LookPath("xprintidle")
	if err != nil {
		return nil, fmt.Errorf("%w: xprintidle not found", apperrors.ErrUnsupported)
	}
	return &IdleInputObserver{path: path, interval: idlePollInterval, clock: clk, run: execRunner}, nil
}

// NewIdleInputObserverWithRunner is used by tests to script the idle counter.
func NewIdleInputObserverWithRunner(clk clock.Clock, interval time.Duration, run CommandRunner) *IdleInputObserver {
	return &IdleInputObserver{path: "xprintidle", interval: interval, clock: clk, run: run}
}

// Observe reports input seen after the first poll interval. Anything
// earlier belongs to the key press or click that started observing.
func (o *IdleInputObserver) Observe(ctx context.Context, emit func(at time.Time)) error {
	armed := o.clock.Now().Add(o.interval)
	ticker := o.clock.NewTicker(o.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C():
			idle, err := o.idle(ctx)
			if err != nil {
				return err
			}
			now := o.clock.Now()
			if idle < o.interval && now.Add(-idle).After(armed) {
				emit(now)
			}
		}
	}
}

func (o *IdleInputObserver) idle(ctx context.Context) (time.Duration, error) {
	output, err := o.run(ctx, o.path)
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, fmt.Errorf("xprintidle: %w", err)
	}
	return parseIdleMillis(string(output))
}

func parseIdleMillis(raw string) (time.Duration, error) {
	idleMillis, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse idle milliseconds: %w", err)
	}
	if idleMillis < 0 {
		idleMillis = 0
	}
	return time.Duration(idleMillis) * time.Millisecond, nil
}
