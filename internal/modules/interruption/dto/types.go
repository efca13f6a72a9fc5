package dto

import (
	"fmt"
	"strings"
	"time"

	apperrors "focusfarm/internal/platform/errors"
)

// Reason is the closed set of signals that disqualify a focus session.
type Reason string

const (
	ReasonTouchEvent       Reason = "touch_event"
	ReasonAppBackground    Reason = "app_background"
	ReasonDeviceMovement   Reason = "device_movement"
	ReasonScreenUnlock     Reason = "screen_unlock"
	ReasonUsageStatsDenied Reason = "usage_stats_denied"
	ReasonSystemInterrupt  Reason = "system_interrupt"
)

var reasonLabels = map[Reason]string{
	ReasonTouchEvent:       "touch",
	ReasonAppBackground:    "app in background",
	ReasonDeviceMovement:   "device moved",
	ReasonScreenUnlock:     "screen unlocked",
	ReasonUsageStatsDenied: "usage access denied",
	ReasonSystemInterrupt:  "switched to another app",
}

// Reasons lists every reason in declaration order.
func Reasons() []Reason {
	return []Reason{
		ReasonTouchEvent,
		ReasonAppBackground,
		ReasonDeviceMovement,
		ReasonScreenUnlock,
		ReasonUsageStatsDenied,
		ReasonSystemInterrupt,
	}
}

func ParseReason(raw string) (Reason, error) {
	r := Reason(strings.ToLower(strings.TrimSpace(raw)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: unknown interruption reason %q", apperrors.ErrInvalidInput, raw)
	}
	return r, nil
}

func (r Reason) Valid() bool {
	_, ok := reasonLabels[r]
	return ok
}

// Label is the short human readable form shown in the UI.
func (r Reason) Label() string {
	if label, ok := reasonLabels[r]; ok {
		return label
	}
	return string(r)
}

// Event is one interruption observed by a source.
type Event struct {
	Reason Reason
	Source string
	At     time.Time
}
