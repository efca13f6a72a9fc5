package out

import (
	"context"

	settingsin "focusfarm/internal/modules/settings/port/in"
	"focusfarm/internal/modules/timer/domain"
)

// PreferencesBridge reads timer preferences from the settings module on
// every call, so changes apply to the next decision.
type PreferencesBridge struct {
	settings settingsin.Usecase
	// testMode forces test thresholds regardless of the stored setting.
	testMode bool
}

func NewPreferencesBridge(settings settingsin.Usecase, forceTestMode bool) *PreferencesBridge {
	return &PreferencesBridge{settings: settings, testMode: forceTestMode}
}

func (b *PreferencesBridge) Preferences(ctx context.Context) (domain.Preferences, error) {
	s, err := b.settings.Get(ctx)
	if err != nil {
		return domain.Preferences{}, err
	}
	return domain.Preferences{
		StageDuration: s.StageDuration,
		AllowPause:    s.AllowPause,
		TestMode:      s.TestMode || b.testMode,
	}, nil
}
