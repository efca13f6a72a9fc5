package in

import (
	"context"

	timerdto "focusfarm/internal/modules/timer/dto"
	timerin "focusfarm/internal/modules/timer/port/in"
)

type CLIHandler struct {
	usecase timerin.Usecase
}

func NewCLIHandler(usecase timerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context) (timerdto.StateOutput, error) {
	return h.usecase.Start(ctx)
}

func (h CLIHandler) Stop(ctx context.Context) (timerdto.StateOutput, error) {
	return h.usecase.Stop(ctx)
}

func (h CLIHandler) Current(ctx context.Context) (timerdto.StateOutput, error) {
	return h.usecase.Current(ctx)
}

func (h CLIHandler) Watch(ctx context.Context) <-chan timerdto.StateOutput {
	return h.usecase.Watch(ctx)
}
