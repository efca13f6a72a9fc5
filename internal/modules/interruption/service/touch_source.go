package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"focusfarm/internal/modules/interruption/domain"
	"focusfarm/internal/modules/interruption/dto"
	interruptionout "focusfarm/internal/modules/interruption/port/out"
	"focusfarm/internal/platform/clock"
)

const TouchCooldown = 1000 * time.Millisecond

// TouchSource turns any user input into touch_event, at most once per cooldown.
type TouchSource struct {
	broadcaster
	run      runner
	clock    clock.Clock
	observer interruptionout.InputObserver
	cooldown *domain.Cooldown

	quietMu    sync.Mutex
	quietUntil time.Time
}

// NewTouchSource accepts a nil observer; input then only arrives through Touch.
func NewTouchSource(clk clock.Clock, observer interruptionout.InputObserver, logger zerolog.Logger) *TouchSource {
	return &TouchSource{
		broadcaster: newBroadcaster("touch", logger),
		clock:       clk,
		observer:    observer,
		cooldown:    domain.NewCooldown(TouchCooldown),
	}
}

func (s *TouchSource) Start(ctx context.Context) error {
	if !s.setMonitoring(true) {
		return nil
	}
	if s.observer != nil {
		s.run.launch(ctx, func(ctx context.Context) {
			err := s.observer.Observe(ctx, s.Touch)
			if err != nil && !errors.Is(err, context.Canceled) {
				s.logger.Warn().Err(err).Msg("input observer stopped")
			}
		})
	}
	return nil
}

func (s *TouchSource) Stop() {
	if !s.setMonitoring(false) {
		return
	}
	s.run.halt()
}

// Suppress drops input reported at or before until. Hosts call it when a
// key press drives the timer itself, since a desktop-wide observer sees
// that key press too.
func (s *TouchSource) Suppress(until time.Time) {
	s.quietMu.Lock()
	defer s.quietMu.Unlock()
	if until.After(s.quietUntil) {
		s.quietUntil = until
	}
}

// Touch records one input. A zero time means now.
func (s *TouchSource) Touch(at time.Time) {
	if at.IsZero() {
		at = s.clock.Now()
	}
	s.quietMu.Lock()
	quiet := !at.After(s.quietUntil)
	s.quietMu.Unlock()
	if quiet {
		return
	}
	s.emitGated(dto.ReasonTouchEvent, at, func() bool {
		return s.cooldown.Allow(at)
	})
}
