package domain

import interruptiondto "focusfarm/internal/modules/interruption/dto"

type Action int

const (
	ActionInterrupt Action = iota
	ActionIgnore
)

// ReasonPolicy maps each interruption reason to what the timer does with it.
type ReasonPolicy map[interruptiondto.Reason]Action

// DefaultReasonPolicy interrupts on every reason.
func DefaultReasonPolicy() ReasonPolicy {
	policy := make(ReasonPolicy, len(interruptiondto.Reasons()))
	for _, reason := range interruptiondto.Reasons() {
		policy[reason] = ActionInterrupt
	}
	return policy
}

// ActionFor falls back to ActionInterrupt for reasons missing from the table.
func (p ReasonPolicy) ActionFor(reason interruptiondto.Reason) Action {
	if action, ok := p[reason]; ok {
		return action
	}
	return ActionInterrupt
}
