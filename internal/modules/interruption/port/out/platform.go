package out

import (
	"context"
	"time"

	"focusfarm/internal/modules/interruption/domain"
)

// InputObserver reports raw user input. Observe blocks until ctx is done.
type InputObserver interface {
	Observe(ctx context.Context, emit func(at time.Time)) error
}

// SensorFeed streams motion samples. Stream blocks until ctx is done or the
// feed is exhausted.
type SensorFeed interface {
	Stream(ctx context.Context, emit func(domain.SensorSample)) error
}

// UsageQuerier returns usage entries for packages used within [from, to].
// It fails with apperrors.ErrPermissionDenied when access has not been
// granted and apperrors.ErrUnsupported when the platform has no such API.
type UsageQuerier interface {
	QueryUsage(ctx context.Context, from, to time.Time) ([]domain.UsageStat, error)
}

type PackageClassifier interface {
	IsSystemPackage(name string) bool
}
