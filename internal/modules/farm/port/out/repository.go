package out

import (
	"context"
	"time"

	"focusfarm/internal/modules/farm/domain"
)

type SessionReader interface {
	// Totals aggregates sessions started at or after since; a zero since
	// covers everything.
	Totals(ctx context.Context, since time.Time) (domain.SessionTotals, error)
	Recent(ctx context.Context, limit int) ([]domain.SessionSummary, error)
}

type AnimalStore interface {
	Active(ctx context.Context) ([]domain.Animal, error)
	DeleteAll(ctx context.Context) error
}

type CycleStore interface {
	Insert(ctx context.Context, cycle domain.Cycle) error
	Recent(ctx context.Context, limit int) ([]domain.Cycle, error)
}

// CycleSettings reports the configured farm cycle.
type CycleSettings interface {
	Cycle(ctx context.Context) (cycleType string, length time.Duration, err error)
}
