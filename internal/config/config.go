package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	API      APIConfig
	Database DatabaseConfig
	Identity IdentityConfig
	Location LocationConfig
	Sync     SyncConfig
}

type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type DatabaseConfig struct {
	Path string
}

type IdentityConfig struct {
	TokenPath string
}

type LocationConfig struct {
	GPSDAddr string
}

type SyncConfig struct {
	RefreshInterval time.Duration
	ResyncInterval  time.Duration
	TaskDeadline    time.Duration
}

// Load reads the agent configuration from the environment, with .env as an
// optional overlay for development.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	cfg := &Config{
		App: AppConfig{
			Port:     getEnvInt("APP_PORT", 8720),
			Env:      getEnv("APP_ENV", "production"),
			LogLevel: getEnv("LOG_LEVEL", "info"),
		},
		API: APIConfig{
			BaseURL: getEnv("API_BASE_URL", ""),
			Timeout: getEnvDuration("API_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "data/agent.db"),
		},
		Identity: IdentityConfig{
			TokenPath: getEnv("TOKEN_PATH", "data/token"),
		},
		Location: LocationConfig{
			GPSDAddr: getEnv("GPSD_ADDR", "localhost:2947"),
		},
		Sync: SyncConfig{
			RefreshInterval: getEnvDuration("REFRESH_INTERVAL", 30*time.Second),
			ResyncInterval:  getEnvDuration("RESYNC_INTERVAL", 15*time.Minute),
			TaskDeadline:    getEnvDuration("TASK_DEADLINE", 30*time.Second),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields no default can stand in for.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("APP_PORT %d is out of range", c.App.Port)
	}
	if c.Sync.RefreshInterval <= 0 {
		return fmt.Errorf("REFRESH_INTERVAL must be positive")
	}
	if c.Sync.ResyncInterval <= 0 {
		return fmt.Errorf("RESYNC_INTERVAL must be positive")
	}
	if c.Sync.TaskDeadline <= 0 {
		return fmt.Errorf("TASK_DEADLINE must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("Invalid integer in environment, using default", "key", key, "value", v)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("Invalid duration in environment, using default", "key", key, "value", v)
		return fallback
	}
	return d
}
