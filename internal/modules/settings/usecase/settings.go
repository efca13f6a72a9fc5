package usecase

import (
	"context"

	"focusfarm/internal/modules/settings/domain"
	settingsdto "focusfarm/internal/modules/settings/dto"
	settingsin "focusfarm/internal/modules/settings/port/in"
	"focusfarm/internal/modules/settings/service"
)

type Interactor struct {
	svc *service.SettingsService
}

func NewInteractor(svc *service.SettingsService) settingsin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Get(ctx context.Context) (settingsdto.Settings, error) {
	s, err := i.svc.Current(ctx)
	if err != nil {
		return settingsdto.Settings{}, err
	}
	return toDTO(s), nil
}

func (i *Interactor) Update(ctx context.Context, input settingsdto.UpdateInput) (settingsdto.Settings, error) {
	var cycle domain.CycleType
	if input.CycleType != nil {
		parsed, err := domain.ParseCycleType(*input.CycleType)
		if err != nil {
			return settingsdto.Settings{}, err
		}
		cycle = parsed
	}
	s, err := i.svc.Update(ctx, func(s *domain.Settings) {
		if input.StageMinutes != nil {
			s.StageMinutes = *input.StageMinutes
		}
		if input.CycleType != nil {
			s.CycleType = cycle
		}
		if input.AllowPause != nil {
			s.AllowPause = *input.AllowPause
		}
		if input.TestMode != nil {
			s.TestMode = *input.TestMode
		}
		if input.TrustedPackages != nil {
			s.TrustedPackages = append([]string(nil), (*input.TrustedPackages)...)
		}
	})
	if err != nil {
		return settingsdto.Settings{}, err
	}
	return toDTO(s), nil
}

func (i *Interactor) Watch(ctx context.Context) <-chan settingsdto.Settings {
	changes, cancel := i.svc.Subscribe(4)
	out := make(chan settingsdto.Settings, 4)
	go func() {
		defer close(out)
		defer cancel()
		if current, err := i.svc.Current(ctx); err == nil {
			select {
			case out <- toDTO(current):
			case <-ctx.Done():
				return
			}
		}
		for {
			select {
			case <-ctx.Done():
				return
			case s, ok := <-changes:
				if !ok {
					return
				}
				select {
				case out <- toDTO(s):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

func toDTO(s domain.Settings) settingsdto.Settings {
	return settingsdto.Settings{
		StageMinutes:    s.StageMinutes,
		StageDuration:   s.StageDuration(),
		CycleType:       string(s.CycleType),
		CycleDuration:   s.CycleType.Duration(),
		AllowPause:      s.AllowPause,
		TestMode:        s.TestMode,
		TrustedPackages: append([]string(nil), s.TrustedPackages...),
	}
}
