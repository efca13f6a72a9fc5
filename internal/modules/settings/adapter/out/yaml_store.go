package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"focusfarm/internal/modules/settings/domain"
)

type yamlSettings struct {
	StageMinutes    int      `yaml:"stage_minutes"`
	CycleType       string   `yaml:"cycle_type"`
	AllowPause      bool     `yaml:"allow_pause"`
	TestMode        bool     `yaml:"test_mode"`
	TrustedPackages []string `yaml:"trusted_packages,omitempty"`
}

type YAMLStore struct {
	path string
}

func NewYAMLStore(path string) *YAMLStore {
	return &YAMLStore{path: path}
}

// Load returns defaults when the file does not exist. Missing or out of
// range values in the file fall back to their defaults.
func (s *YAMLStore) Load(context.Context) (domain.Settings, error) {
	settings := domain.Default()
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var file yamlSettings
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	if file.StageMinutes >= domain.MinStageMinutes && file.StageMinutes <= domain.MaxStageMinutes {
		settings.StageMinutes = file.StageMinutes
	}
	if cycle, err := domain.ParseCycleType(file.CycleType); err == nil {
		settings.CycleType = cycle
	}
	settings.AllowPause = file.AllowPause
	settings.TestMode = file.TestMode
	settings.TrustedPackages = file.TrustedPackages
	return settings, nil
}

// Save writes through a temporary file so a crash never leaves a torn file.
func (s *YAMLStore) Save(_ context.Context, settings domain.Settings) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}
	serialized, err := yaml.Marshal(yamlSettings{
		StageMinutes:    settings.StageMinutes,
		CycleType:       string(settings.CycleType),
		AllowPause:      settings.AllowPause,
		TestMode:        settings.TestMode,
		TrustedPackages: settings.TrustedPackages,
	})
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace settings file: %w", err)
	}
	return nil
}
