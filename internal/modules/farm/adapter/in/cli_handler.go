package in

import (
	"context"

	farmdto "focusfarm/internal/modules/farm/dto"
	farmin "focusfarm/internal/modules/farm/port/in"
)

type CLIHandler struct {
	usecase farmin.Usecase
}

func NewCLIHandler(usecase farmin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Stats(ctx context.Context) (farmdto.StatsOutput, error) {
	return h.usecase.Stats(ctx)
}

func (h CLIHandler) Sessions(ctx context.Context, limit int) ([]farmdto.SessionOutput, error) {
	return h.usecase.RecentSessions(ctx, limit)
}

func (h CLIHandler) Animals(ctx context.Context) ([]farmdto.AnimalOutput, error) {
	return h.usecase.Animals(ctx)
}

func (h CLIHandler) Reset(ctx context.Context, reason string) (farmdto.CycleOutput, error) {
	return h.usecase.ResetCycle(ctx, reason)
}

func (h CLIHandler) Cycles(ctx context.Context, limit int) ([]farmdto.CycleOutput, error) {
	return h.usecase.Cycles(ctx, limit)
}
