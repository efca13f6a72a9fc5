package in

import (
	"context"

	"focusfarm/internal/modules/farm/dto"
)

type Usecase interface {
	Stats(ctx context.Context) (dto.StatsOutput, error)
	RecentSessions(ctx context.Context, limit int) ([]dto.SessionOutput, error)
	Animals(ctx context.Context) ([]dto.AnimalOutput, error)
	// ResetCycle snapshots the farm into a cycle record and clears all animals.
	ResetCycle(ctx context.Context, reason string) (dto.CycleOutput, error)
	Cycles(ctx context.Context, limit int) ([]dto.CycleOutput, error)
}
