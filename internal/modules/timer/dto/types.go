package dto

import "time"

// StateOutput is the session state as exposed to front ends.
type StateOutput struct {
	State         string        `json:"state"`
	StartTime     time.Time     `json:"start_time,omitzero"`
	Progress      float64       `json:"progress"`
	Elapsed       time.Duration `json:"elapsed_ns"`
	Remaining     time.Duration `json:"remaining_ns"`
	RemainingText string        `json:"remaining"`
	Reason        string        `json:"reason,omitempty"`
	Result        string        `json:"result,omitempty"`
	Tier1         time.Duration `json:"tier1_ns"`
	Tier2         time.Duration `json:"tier2_ns"`
	Tier3         time.Duration `json:"tier3_ns"`
}

func (s StateOutput) Running() bool {
	return s.State == "incubating" || s.State == "paused"
}
