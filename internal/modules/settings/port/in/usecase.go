package in

import (
	"context"

	"focusfarm/internal/modules/settings/dto"
)

type Usecase interface {
	Get(ctx context.Context) (dto.Settings, error)
	Update(ctx context.Context, input dto.UpdateInput) (dto.Settings, error)
	// Watch delivers the current settings and then every change until ctx is done.
	Watch(ctx context.Context) <-chan dto.Settings
}
