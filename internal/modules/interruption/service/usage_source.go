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
	apperrors "focusfarm/internal/platform/errors"
)

const (
	UsagePollInterval = 2 * time.Second
	UsageWindow       = 5 * time.Second
)

// UsageSource polls the usage querier and emits system_interrupt when a
// foreign, non-system package comes to the front.
type UsageSource struct {
	broadcaster
	run        runner
	clock      clock.Clock
	querier    interruptionout.UsageQuerier
	classifier interruptionout.PackageClassifier

	checkMu     sync.Mutex
	tracker     *domain.ForegroundTracker
	unsupported bool
	denied      bool
}

func NewUsageSource(clk clock.Clock, querier interruptionout.UsageQuerier, classifier interruptionout.PackageClassifier, ownPackage string, logger zerolog.Logger) *UsageSource {
	return &UsageSource{
		broadcaster: newBroadcaster("usage", logger),
		clock:       clk,
		querier:     querier,
		classifier:  classifier,
		tracker:     domain.NewForegroundTracker(ownPackage),
	}
}

func (s *UsageSource) Start(ctx context.Context) error {
	s.checkMu.Lock()
	s.tracker.Reset()
	s.unsupported = s.querier == nil
	s.denied = false
	s.checkMu.Unlock()
	if !s.setMonitoring(true) {
		return nil
	}
	if s.querier == nil {
		return nil
	}
	s.run.launch(ctx, s.poll)
	return nil
}

func (s *UsageSource) Stop() {
	if !s.setMonitoring(false) {
		return
	}
	s.run.halt()
}

func (s *UsageSource) poll(ctx context.Context) {
	ticker := s.clock.NewTicker(UsagePollInterval)
	defer ticker.Stop()
	s.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			s.Check(ctx)
		}
	}
}

// Check performs one poll.
func (s *UsageSource) Check(ctx context.Context) {
	if !s.IsMonitoring() {
		return
	}
	s.checkMu.Lock()
	defer s.checkMu.Unlock()
	if s.unsupported {
		return
	}

	now := s.clock.Now()
	stats, err := s.querier.QueryUsage(ctx, now.Add(-UsageWindow), now)
	switch {
	case errors.Is(err, apperrors.ErrUnsupported):
		s.unsupported = true
		s.logger.Info().Msg("usage stats unsupported on this platform")
		return
	case errors.Is(err, apperrors.ErrPermissionDenied):
		if !s.denied {
			s.denied = true
			s.emit(dto.ReasonUsageStatsDenied, now)
		}
		return
	case err != nil:
		s.logger.Debug().Err(err).Msg("usage query failed")
		return
	}

	pkg, changed := s.tracker.Observe(stats)
	if !changed {
		return
	}
	if s.classifier != nil && s.classifier.IsSystemPackage(pkg) {
		s.logger.Debug().Str("package", pkg).Msg("ignoring system package")
		return
	}
	s.logger.Info().Str("package", pkg).Msg("foreground switched to another app")
	s.emit(dto.ReasonSystemInterrupt, now)
}
