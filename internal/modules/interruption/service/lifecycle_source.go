package service

import (
	"context"

	"github.com/rs/zerolog"

	"focusfarm/internal/modules/interruption/domain"
	"focusfarm/internal/modules/interruption/dto"
	"focusfarm/internal/platform/clock"
)

// LifecycleSource emits app_background when the process leaves the
// foreground. Activity counting runs whether or not it is monitoring.
type LifecycleSource struct {
	broadcaster
	clock   clock.Clock
	counter domain.ActivityCounter
}

func NewLifecycleSource(clk clock.Clock, logger zerolog.Logger) *LifecycleSource {
	return &LifecycleSource{broadcaster: newBroadcaster("lifecycle", logger), clock: clk}
}

func (s *LifecycleSource) Start(context.Context) error {
	s.setMonitoring(true)
	return nil
}

func (s *LifecycleSource) Stop() {
	s.setMonitoring(false)
}

func (s *LifecycleSource) ActivityStarted() {
	s.mu.Lock()
	s.counter.Started()
	s.mu.Unlock()
}

func (s *LifecycleSource) ActivityStopped(changingConfig bool) {
	s.mu.Lock()
	backgrounded := s.counter.Stopped(changingConfig)
	s.mu.Unlock()
	if backgrounded {
		s.emit(dto.ReasonAppBackground, s.clock.Now())
	}
}

func (s *LifecycleSource) ProcessStopped() {
	s.emit(dto.ReasonAppBackground, s.clock.Now())
}

func (s *LifecycleSource) TrimMemory(level int) {
	if level == domain.TrimMemoryUIHidden {
		s.emit(dto.ReasonAppBackground, s.clock.Now())
	}
}
