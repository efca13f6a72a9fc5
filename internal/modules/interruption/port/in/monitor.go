package in

import (
	"context"
	"time"

	"focusfarm/internal/modules/interruption/domain"
	"focusfarm/internal/modules/interruption/dto"
)

// Monitor is the combined interruption stream consumed by the timer.
type Monitor interface {
	Start(ctx context.Context) error
	Stop()
	Events() <-chan dto.Event
	SetFocusVisible(visible bool)
	SetStrictMode(enabled bool)
}

// LifecycleHooks receives process and screen lifecycle callbacks from the host.
type LifecycleHooks interface {
	ActivityStarted()
	ActivityStopped(changingConfig bool)
	ProcessStopped()
	TrimMemory(level int)
}

// InputSink accepts raw input pushed by the host UI. Suppress marks input
// up to until as the host's own control gesture.
type InputSink interface {
	Touch(at time.Time)
	Suppress(until time.Time)
}

// MotionSink accepts sensor samples pushed by the host.
type MotionSink interface {
	Sample(sample domain.SensorSample)
}
