package out

import (
	"context"
	"time"

	settingsin "focusfarm/internal/modules/settings/port/in"
)

// SettingsCycleBridge exposes the configured cycle type to the farm service.
type SettingsCycleBridge struct {
	settings settingsin.Usecase
}

func NewSettingsCycleBridge(settings settingsin.Usecase) *SettingsCycleBridge {
	return &SettingsCycleBridge{settings: settings}
}

func (b *SettingsCycleBridge) Cycle(ctx context.Context) (string, time.Duration, error) {
	s, err := b.settings.Get(ctx)
	if err != nil {
		return "", 0, err
	}
	return s.CycleType, s.CycleDuration, nil
}
