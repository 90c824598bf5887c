package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	DSN string
}

type SessionConfig struct {
	CleanupInterval time.Duration
}

type LoggingConfig struct {
	Level string
}

type AppConfig struct {
	Server   ServerConfig
	Database DatabaseConfig
	Session  SessionConfig
	Logging  LoggingConfig
}

func Load() (*AppConfig, error) {
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "3000")
	viper.SetDefault("DATABASE_DSN", "data/logbook.db")
	viper.SetDefault("SESSION_CLEANUP_INTERVAL", "1h")
	viper.SetDefault("LOG_LEVEL", "info")

	cleanupInterval, err := time.ParseDuration(viper.GetString("SESSION_CLEANUP_INTERVAL"))
	if err != nil {
		return nil, fmt.Errorf("invalid session cleanup interval: %w", err)
	}

	cfg := &AppConfig{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			DSN: viper.GetString("DATABASE_DSN"),
		},
		Session: SessionConfig{
			CleanupInterval: cleanupInterval,
		},
		Logging: LoggingConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	if cfg.Database.DSN == "" {
		return nil, fmt.Errorf("DATABASE_DSN is required")
	}

	return cfg, nil
}
