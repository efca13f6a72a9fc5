package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"focusfarm/internal/modules/settings/domain"
	settingsout "focusfarm/internal/modules/settings/port/out"
)

// SettingsService caches the stored settings and tells subscribers about
// every change.
type SettingsService struct {
	store  settingsout.Store
	logger zerolog.Logger

	mu      sync.RWMutex
	current domain.Settings
	loaded  bool
	subs    map[chan domain.Settings]struct{}
}

func NewSettingsService(store settingsout.Store, logger zerolog.Logger) *SettingsService {
	return &SettingsService{
		store:  store,
		logger: logger.With().Str("component", "settings").Logger(),
		subs:   map[chan domain.Settings]struct{}{},
	}
}

func (s *SettingsService) Current(ctx context.Context) (domain.Settings, error) {
	s.mu.RLock()
	if s.loaded {
		defer s.mu.RUnlock()
		return s.current, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.current, nil
	}
	loaded, err := s.store.Load(ctx)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	loaded = loaded.Normalize()
	if err := loaded.Validate(); err != nil {
		s.logger.Warn().Err(err).Msg("stored settings invalid, using defaults")
		loaded = domain.Default()
	}
	s.current = loaded
	s.loaded = true
	return s.current, nil
}

// Update applies fn to a copy of the current settings, validates and saves
// the result, then notifies subscribers.
func (s *SettingsService) Update(ctx context.Context, fn func(*domain.Settings)) (domain.Settings, error) {
	current, err := s.Current(ctx)
	if err != nil {
		return domain.Settings{}, err
	}
	next := current
	next.TrustedPackages = append([]string(nil), current.TrustedPackages...)
	fn(&next)
	next = next.Normalize()
	if err := next.Validate(); err != nil {
		return domain.Settings{}, err
	}
	if err := s.store.Save(ctx, next); err != nil {
		return domain.Settings{}, fmt.Errorf("save settings: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = next
	for ch := range s.subs {
		select {
		case ch <- next:
		default:
			s.logger.Debug().Msg("settings subscriber behind")
		}
	}
	s.logger.Info().
		Int("stage_minutes", next.StageMinutes).
		Str("cycle", string(next.CycleType)).
		Bool("allow_pause", next.AllowPause).
		Bool("test_mode", next.TestMode).
		Msg("settings updated")
	return next, nil
}

func (s *SettingsService) Subscribe(buffer int) (<-chan domain.Settings, func()) {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan domain.Settings, buffer)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, ch)
			s.mu.Unlock()
			close(ch)
		})
	}
}
