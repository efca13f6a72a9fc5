package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	envDataDir      = "FOCUSFARM_DATA_DIR"
	envLogLevel     = "FOCUSFARM_LOG_LEVEL"
	envLogFile      = "FOCUSFARM_LOG_FILE"
	envAppName      = "FOCUSFARM_APP_NAME"
	envSensorReplay = "FOCUSFARM_SENSOR_REPLAY"

	defaultAppName = "focusfarm"
)

type Config struct {
	DataDir      string
	DBPath       string
	SettingsPath string
	LogLevel     string
	LogFile      string
	// AppName identifies our own process in foreground-app polling.
	AppName      string
	SensorReplay string
}

// New derives every path from the data directory.
func New(dataDir string) (Config, error) {
	if strings.TrimSpace(dataDir) == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	return Config{
		DataDir:      dataDir,
		DBPath:       filepath.Join(dataDir, "focusfarm.db"),
		SettingsPath: filepath.Join(dataDir, "settings.yaml"),
		LogLevel:     "info",
		AppName:      defaultAppName,
	}, nil
}

// Load builds a Config for dataDir and applies overrides from the
// environment and from an optional <dataDir>/.env file. An empty dataDir
// falls back to FOCUSFARM_DATA_DIR, then to the user config directory.
func Load(dataDir string) (Config, error) {
	if dataDir == "" {
		dataDir = os.Getenv(envDataDir)
	}
	if dataDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve user config dir: %w", err)
		}
		dataDir = filepath.Join(base, defaultAppName)
	}

	if err := godotenv.Load(filepath.Join(dataDir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg, err := New(dataDir)
	if err != nil {
		return Config{}, err
	}
	cfg.LogLevel = getEnv(envLogLevel, cfg.LogLevel)
	cfg.LogFile = getEnv(envLogFile, "")
	cfg.AppName = getEnv(envAppName, cfg.AppName)
	cfg.SensorReplay = getEnv(envSensorReplay, "")

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db path cannot be empty")
	}
	if c.SettingsPath == "" {
		return fmt.Errorf("settings path cannot be empty")
	}
	if c.AppName == "" {
		return fmt.Errorf("%s cannot be empty", envAppName)
	}
	switch strings.ToLower(c.LogLevel) {
	case "trace", "debug", "info", "warn", "error", "disabled":
	default:
		return fmt.Errorf("%s must be one of trace|debug|info|warn|error|disabled, got %q", envLogLevel, c.LogLevel)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}
