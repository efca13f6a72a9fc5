package dto

import "time"

type Settings struct {
	StageMinutes    int           `json:"stage_minutes"`
	StageDuration   time.Duration `json:"stage_duration_ns"`
	CycleType       string        `json:"cycle_type"`
	CycleDuration   time.Duration `json:"cycle_duration_ns"`
	AllowPause      bool          `json:"allow_pause"`
	TestMode        bool          `json:"test_mode"`
	TrustedPackages []string      `json:"trusted_packages"`
}

// UpdateInput changes only the fields that are set.
type UpdateInput struct {
	StageMinutes    *int
	CycleType       *string
	AllowPause      *bool
	TestMode        *bool
	TrustedPackages *[]string
}
