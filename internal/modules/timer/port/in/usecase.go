package in

import (
	"context"

	"focusfarm/internal/modules/timer/dto"
)

type Usecase interface {
	Start(ctx context.Context) (dto.StateOutput, error)
	Stop(ctx context.Context) (dto.StateOutput, error)
	Pause(ctx context.Context) (dto.StateOutput, error)
	Resume(ctx context.Context) (dto.StateOutput, error)
	Reset(ctx context.Context) (dto.StateOutput, error)
	Current(ctx context.Context) (dto.StateOutput, error)
	// Watch streams state changes until ctx is done.
	Watch(ctx context.Context) <-chan dto.StateOutput
	SetFocusVisible(visible bool)
}
