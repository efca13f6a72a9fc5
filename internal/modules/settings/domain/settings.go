package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "focusfarm/internal/platform/errors"
)

const (
	MinStageMinutes     = 5
	MaxStageMinutes     = 60
	DefaultStageMinutes = 15
)

type CycleType string

const (
	CycleDaily   CycleType = "daily"
	CycleWeek    CycleType = "week"
	CycleMonth   CycleType = "month"
	CycleQuarter CycleType = "quarter"
	CycleYear    CycleType = "year"
	CycleCustom  CycleType = "custom"
)

var cycleDays = map[CycleType]int{
	CycleDaily:   1,
	CycleWeek:    7,
	CycleMonth:   30,
	CycleQuarter: 90,
	CycleYear:    365,
	CycleCustom:  1,
}

func CycleTypes() []CycleType {
	return []CycleType{CycleDaily, CycleWeek, CycleMonth, CycleQuarter, CycleYear, CycleCustom}
}

func ParseCycleType(raw string) (CycleType, error) {
	c := CycleType(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := cycleDays[c]; !ok {
		return "", fmt.Errorf("%w: unknown cycle type %q", apperrors.ErrInvalidInput, raw)
	}
	return c, nil
}

// Duration is the length of one farm cycle.
func (c CycleType) Duration() time.Duration {
	days, ok := cycleDays[c]
	if !ok {
		days = 1
	}
	return time.Duration(days) * 24 * time.Hour
}

type Settings struct {
	StageMinutes    int
	CycleType       CycleType
	AllowPause      bool
	TestMode        bool
	TrustedPackages []string
}

func Default() Settings {
	return Settings{StageMinutes: DefaultStageMinutes, CycleType: CycleWeek}
}

func (s Settings) StageDuration() time.Duration {
	return time.Duration(s.StageMinutes) * time.Minute
}

func (s Settings) Validate() error {
	if s.StageMinutes < MinStageMinutes || s.StageMinutes > MaxStageMinutes {
		return fmt.Errorf("%w: stage duration must be between %d and %d minutes, got %d", apperrors.ErrInvalidInput, MinStageMinutes, MaxStageMinutes, s.StageMinutes)
	}
	if _, err := ParseCycleType(string(s.CycleType)); err != nil {
		return err
	}
	return nil
}

// Normalize trims and dedupes the trusted package list.
func (s Settings) Normalize() Settings {
	seen := map[string]struct{}{}
	trusted := make([]string, 0, len(s.TrustedPackages))
	for _, name := range s.TrustedPackages {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		trusted = append(trusted, name)
	}
	s.TrustedPackages = trusted
	return s
}
