package usecase

import (
	"context"

	"focusfarm/internal/modules/farm/domain"
	farmdto "focusfarm/internal/modules/farm/dto"
	farmin "focusfarm/internal/modules/farm/port/in"
	"focusfarm/internal/modules/farm/service"
)

type Interactor struct {
	svc *service.FarmService
}

func NewInteractor(svc *service.FarmService) farmin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Stats(ctx context.Context) (farmdto.StatsOutput, error) {
	stats, err := i.svc.Stats(ctx)
	if err != nil {
		return farmdto.StatsOutput{}, err
	}
	return farmdto.StatsOutput{
		TotalSessions:       stats.Totals.Sessions,
		SuccessfulSessions:  stats.Totals.Successful,
		InterruptedSessions: stats.Totals.Interrupted,
		TotalFocus:          stats.Totals.TotalFocus,
		AverageFocus:        stats.Totals.AverageFocus(),
		LongestFocus:        stats.Totals.Longest,
		Chickens:            stats.Animals.Chickens,
		Cats:                stats.Animals.Cats,
		Dogs:                stats.Animals.Dogs,
	}, nil
}

func (i *Interactor) RecentSessions(ctx context.Context, limit int) ([]farmdto.SessionOutput, error) {
	sessions, err := i.svc.RecentSessions(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]farmdto.SessionOutput, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, farmdto.SessionOutput{ID: s.ID, StartTime: s.StartTime, Duration: s.Duration, Result: s.Result, Reason: s.Reason})
	}
	return out, nil
}

func (i *Interactor) Animals(ctx context.Context) ([]farmdto.AnimalOutput, error) {
	animals, err := i.svc.Animals(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]farmdto.AnimalOutput, 0, len(animals))
	for _, a := range animals {
		out = append(out, farmdto.AnimalOutput{ID: a.ID, Type: a.Type, Family: string(a.Family), CreatedAt: a.CreatedAt})
	}
	return out, nil
}

func (i *Interactor) ResetCycle(ctx context.Context, reason string) (farmdto.CycleOutput, error) {
	cycle, err := i.svc.ResetCycle(ctx, reason)
	if err != nil {
		return farmdto.CycleOutput{}, err
	}
	return cycleOutput(cycle), nil
}

func (i *Interactor) Cycles(ctx context.Context, limit int) ([]farmdto.CycleOutput, error) {
	cycles, err := i.svc.Cycles(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]farmdto.CycleOutput, 0, len(cycles))
	for _, c := range cycles {
		out = append(out, cycleOutput(c))
	}
	return out, nil
}

func cycleOutput(c domain.Cycle) farmdto.CycleOutput {
	return farmdto.CycleOutput{
		ID:            c.ID,
		Start:         c.Start,
		End:           c.End,
		CycleType:     c.CycleType,
		TotalSessions: c.TotalSessions,
		TotalDuration: c.TotalDuration,
		Chickens:      c.Counts.Chickens,
		Cats:          c.Counts.Cats,
		Dogs:          c.Counts.Dogs,
		Reason:        c.Reason,
	}
}
