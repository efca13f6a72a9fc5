package out

import (
	"context"
	"time"

	interruptiondto "focusfarm/internal/modules/interruption/dto"
	"focusfarm/internal/modules/timer/domain"
)

type SessionStore interface {
	InsertSession(ctx context.Context, record domain.Record) error
}

type FarmStore interface {
	InsertAnimal(ctx context.Context, animal domain.Animal) error
	ActiveAnimals(ctx context.Context) ([]domain.Animal, error)
	DeleteAllAnimals(ctx context.Context) error
}

// Notifier mirrors the running session outside the process. Calls after
// Stop must be harmless.
type Notifier interface {
	Start(startTime time.Time)
	UpdateProgress(progress float64, remaining time.Duration)
	Stop()
}

type PreferencesSource interface {
	Preferences(ctx context.Context) (domain.Preferences, error)
}

type Monitor interface {
	Start(ctx context.Context) error
	Stop()
	Events() <-chan interruptiondto.Event
	SetFocusVisible(visible bool)
}

type Recorder interface {
	SessionStarted()
	SessionCompleted(result string, d time.Duration)
	Interrupted(reason string)
	AnimalsAwarded(family string, count int)
}
