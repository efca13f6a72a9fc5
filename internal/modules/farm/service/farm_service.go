package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"focusfarm/internal/modules/farm/domain"
	farmout "focusfarm/internal/modules/farm/port/out"
	"focusfarm/internal/platform/clock"
	"focusfarm/internal/platform/id"
	"focusfarm/internal/platform/tx"
)

const DefaultListLimit = 20

var zeroTime time.Time

type FarmService struct {
	clock    clock.Clock
	ids      id.Generator
	sessions farmout.SessionReader
	animals  farmout.AnimalStore
	cycles   farmout.CycleStore
	settings farmout.CycleSettings
	tx       tx.Manager
	logger   zerolog.Logger
}

func NewFarmService(
	clk clock.Clock,
	ids id.Generator,
	sessions farmout.SessionReader,
	animals farmout.AnimalStore,
	cycles farmout.CycleStore,
	settings farmout.CycleSettings,
	txManager tx.Manager,
	logger zerolog.Logger,
) *FarmService {
	if txManager == nil {
		txManager = tx.NoopManager{}
	}
	return &FarmService{
		clock:    clk,
		ids:      ids,
		sessions: sessions,
		animals:  animals,
		cycles:   cycles,
		settings: settings,
		tx:       txManager,
		logger:   logger.With().Str("component", "farm").Logger(),
	}
}

func (s *FarmService) Stats(ctx context.Context) (domain.Stats, error) {
	totals, err := s.sessions.Totals(ctx, zeroTime)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("session totals: %w", err)
	}
	counts, err := s.familyCounts(ctx)
	if err != nil {
		return domain.Stats{}, err
	}
	return domain.Stats{Totals: totals, Animals: counts}, nil
}

func (s *FarmService) RecentSessions(ctx context.Context, limit int) ([]domain.SessionSummary, error) {
	return s.sessions.Recent(ctx, normalizeLimit(limit))
}

func (s *FarmService) Animals(ctx context.Context) ([]domain.Animal, error) {
	return s.animals.Active(ctx)
}

func (s *FarmService) Cycles(ctx context.Context, limit int) ([]domain.Cycle, error) {
	return s.cycles.Recent(ctx, normalizeLimit(limit))
}

// ResetCycle records the current farm as one cycle ending now and clears
// every animal, in a single transaction.
func (s *FarmService) ResetCycle(ctx context.Context, reason string) (domain.Cycle, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = domain.DefaultResetReason
	}
	cycleType, length, err := s.settings.Cycle(ctx)
	if err != nil {
		return domain.Cycle{}, fmt.Errorf("read cycle settings: %w", err)
	}

	now := s.clock.Now()
	cycle := domain.Cycle{
		ID:        s.ids.New(),
		Start:     now.Add(-length),
		End:       now,
		CycleType: cycleType,
		Reason:    reason,
		CreatedAt: now,
	}
	err = s.tx.Within(ctx, func(ctx context.Context) error {
		totals, err := s.sessions.Totals(ctx, cycle.Start)
		if err != nil {
			return fmt.Errorf("session totals: %w", err)
		}
		counts, err := s.familyCounts(ctx)
		if err != nil {
			return err
		}
		cycle.TotalSessions = totals.Sessions
		cycle.TotalDuration = totals.TotalFocus
		cycle.Counts = counts
		if err := s.cycles.Insert(ctx, cycle); err != nil {
			return err
		}
		return s.animals.DeleteAll(ctx)
	})
	if err != nil {
		return domain.Cycle{}, err
	}
	s.logger.Info().
		Str("cycle", cycle.ID).
		Str("type", cycle.CycleType).
		Int("animals", cycle.Counts.Total()).
		Str("reason", reason).
		Msg("farm cycle reset")
	return cycle, nil
}

func (s *FarmService) familyCounts(ctx context.Context) (domain.FamilyCounts, error) {
	animals, err := s.animals.Active(ctx)
	if err != nil {
		return domain.FamilyCounts{}, fmt.Errorf("active animals: %w", err)
	}
	var counts domain.FamilyCounts
	for _, a := range animals {
		counts.Add(a.Family)
	}
	return counts, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
