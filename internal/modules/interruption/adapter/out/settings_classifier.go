package out

import (
	"context"
	"slices"
	"sync"

	settingsin "focusfarm/internal/modules/settings/port/in"
)

// SettingsClassifier follows the trusted package list in the user settings.
// An unreadable settings file leaves the previous list in place.
type SettingsClassifier struct {
	settings settingsin.Usecase

	mu      sync.Mutex
	trusted []string
	current *StaticClassifier
}

func NewSettingsClassifier(settings settingsin.Usecase) *SettingsClassifier {
	return &SettingsClassifier{settings: settings, current: NewStaticClassifier(nil)}
}

func (c *SettingsClassifier) IsSystemPackage(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, err := c.settings.Get(context.Background()); err == nil && !slices.Equal(s.TrustedPackages, c.trusted) {
		c.trusted = slices.Clone(s.TrustedPackages)
		c.current = NewStaticClassifier(c.trusted)
	}
	return c.current.IsSystemPackage(name)
}
