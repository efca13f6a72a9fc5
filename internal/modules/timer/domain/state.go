package domain

import (
	"time"

	interruptiondto "focusfarm/internal/modules/interruption/dto"
)

type Kind int

const (
	KindIdle Kind = iota
	KindIncubating
	KindPaused
	KindInterrupted
	KindCompleted
)

func (k Kind) String() string {
	switch k {
	case KindIdle:
		return "idle"
	case KindIncubating:
		return "incubating"
	case KindPaused:
		return "paused"
	case KindInterrupted:
		return "interrupted"
	case KindCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

type Result string

const (
	ResultSuccess     Result = "success"
	ResultInterrupted Result = "interrupted"
	ResultFailed      Result = "failed"
)

// State is the session state. Only the fields of the active Kind are set:
//
//	Incubating:  StartTime, Progress
//	Paused:      Accumulated
//	Interrupted: Reason, Accumulated
//	Completed:   Duration, Result
type State struct {
	Kind        Kind
	StartTime   time.Time
	Progress    float64
	Accumulated time.Duration
	Reason      interruptiondto.Reason
	Duration    time.Duration
	Result      Result
}

func Idle() State {
	return State{Kind: KindIdle}
}

func Incubating(start time.Time, progress float64) State {
	return State{Kind: KindIncubating, StartTime: start, Progress: progress}
}

func Paused(accumulated time.Duration) State {
	return State{Kind: KindPaused, Accumulated: accumulated}
}

func Interrupted(reason interruptiondto.Reason, accumulated time.Duration) State {
	return State{Kind: KindInterrupted, Reason: reason, Accumulated: accumulated}
}

func Completed(duration time.Duration, result Result) State {
	return State{Kind: KindCompleted, Duration: duration, Result: result}
}

func (s State) CanStart() bool {
	return s.Kind == KindIdle || s.Kind == KindCompleted || s.Kind == KindInterrupted
}

func (s State) CanPause() bool {
	return s.Kind == KindIncubating
}

// CanResume keeps Interrupted in the guard even though an interruption is
// always finalized in the same step.
func (s State) CanResume() bool {
	return s.Kind == KindPaused || s.Kind == KindInterrupted
}
