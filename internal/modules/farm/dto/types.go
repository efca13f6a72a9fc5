package dto

import "time"

type StatsOutput struct {
	TotalSessions       int
	SuccessfulSessions  int
	InterruptedSessions int
	TotalFocus          time.Duration
	AverageFocus        time.Duration
	LongestFocus        time.Duration
	Chickens            int
	Cats                int
	Dogs                int
}

type SessionOutput struct {
	ID        string
	StartTime time.Time
	Duration  time.Duration
	Result    string
	Reason    string
}

type AnimalOutput struct {
	ID        string
	Type      string
	Family    string
	CreatedAt time.Time
}

type CycleOutput struct {
	ID            string
	Start         time.Time
	End           time.Time
	CycleType     string
	TotalSessions int
	TotalDuration time.Duration
	Chickens      int
	Cats          int
	Dogs          int
	Reason        string
}
