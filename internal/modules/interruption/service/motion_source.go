package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"focusfarm/internal/modules/interruption/domain"
	"focusfarm/internal/modules/interruption/dto"
	interruptionout "focusfarm/internal/modules/interruption/port/out"
	"focusfarm/internal/platform/clock"
)

const (
	MotionThreshold = 1.5
	MotionCooldown  = 2000 * time.Millisecond
)

// MotionSource emits device_movement when consecutive samples of the same
// sensor differ by more than MotionThreshold. Accelerometer and gyroscope
// share one cooldown.
type MotionSource struct {
	broadcaster
	run      runner
	clock    clock.Clock
	feed     interruptionout.SensorFeed
	tracker  *domain.MotionTracker
	cooldown *domain.Cooldown
}

func NewMotionSource(clk clock.Clock, feed interruptionout.SensorFeed, logger zerolog.Logger) *MotionSource {
	return &MotionSource{
		broadcaster: newBroadcaster("motion", logger),
		clock:       clk,
		feed:        feed,
		tracker:     domain.NewMotionTracker(MotionThreshold),
		cooldown:    domain.NewCooldown(MotionCooldown),
	}
}

func (s *MotionSource) Start(ctx context.Context) error {
	s.mu.Lock()
	s.tracker.Reset()
	s.mu.Unlock()
	if !s.setMonitoring(true) {
		return nil
	}
	if s.feed == nil {
		s.logger.Info().Msg("no motion sensors available")
		return nil
	}
	s.run.launch(ctx, func(ctx context.Context) {
		err := s.feed.Stream(ctx, s.Sample)
		if err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Warn().Err(err).Msg("sensor feed stopped")
		}
	})
	return nil
}

func (s *MotionSource) Stop() {
	if !s.setMonitoring(false) {
		return
	}
	s.run.halt()
}

func (s *MotionSource) Sample(sample domain.SensorSample) {
	if sample.At.IsZero() {
		sample.At = s.clock.Now()
	}
	s.emitGated(dto.ReasonDeviceMovement, sample.At, func() bool {
		return s.tracker.Observe(sample) && s.cooldown.Allow(sample.At)
	})
}
