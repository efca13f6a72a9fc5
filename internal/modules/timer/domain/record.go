package domain

import (
	"time"

	interruptiondto "focusfarm/internal/modules/interruption/dto"
)

const ModeStrict = "strict"

// Record is the persisted outcome of one session. It is written once.
type Record struct {
	ID        string
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	Result    Result
	Mode      string
	// Reason is empty unless the session was interrupted.
	Reason    interruptiondto.Reason
	CreatedAt time.Time
}
