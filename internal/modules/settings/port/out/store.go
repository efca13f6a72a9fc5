package out

import (
	"context"

	"focusfarm/internal/modules/settings/domain"
)

type Store interface {
	// Load returns domain.Default() when nothing has been saved yet.
	Load(ctx context.Context) (domain.Settings, error)
	Save(ctx context.Context, settings domain.Settings) error
}
