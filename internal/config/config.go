// Package config loads the server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/mcoot/battle-royale/internal/api"
	"github.com/mcoot/battle-royale/internal/factory"
	"github.com/mcoot/battle-royale/internal/services/hostkey"
	redisstorage "github.com/mcoot/battle-royale/internal/storage/redis"
)

// Server is the configuration of the royale server
type Server struct {
	Host            string        `env:"ROYALE_HOST"`
	Port            int           `env:"ROYALE_PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"ROYALE_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"ROYALE_WRITE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"ROYALE_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	LogLevel        string        `env:"ROYALE_LOG_LEVEL" envDefault:"info"`

	// StorageType is one of memory, redis or sqlite
	StorageType   string        `env:"ROYALE_STORAGE" envDefault:"memory"`
	RedisURL      string        `env:"ROYALE_REDIS_URL" envDefault:"redis://localhost:6379"`
	RedisMatchTTL time.Duration `env:"ROYALE_REDIS_MATCH_TTL" envDefault:"24h"`
	SQLitePath    string        `env:"ROYALE_SQLITE_PATH" envDefault:"royale.db"`

	// HistorySeedPath is a JSON history file merged into storage at startup
	HistorySeedPath string `env:"ROYALE_HISTORY_SEED"`
	StaticDir       string `env:"ROYALE_STATIC_DIR" envDefault:"internal/web/static"`
	HostKeyCost     int    `env:"ROYALE_HOST_KEY_COST" envDefault:"10"`

	// HubCleanupInterval is how often live hubs without viewers are closed
	HubCleanupInterval time.Duration `env:"ROYALE_HUB_CLEANUP_INTERVAL" envDefault:"5m"`
}

// LoadDotEnv loads variables from .env style files. Missing files are ignored;
// variables already set in the environment win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads .env (if present) and the environment into a validated Server config
func Load() (Server, error) {
	var cfg Server
	if err := LoadDotEnv(); err != nil {
		return cfg, err
	}
	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Validate checks the values that cannot be defaulted
func (c Server) Validate() error {
	switch c.StorageType {
	case factory.StorageTypeMemory, factory.StorageTypeRedis, factory.StorageTypeSQLite:
	default:
		return fmt.Errorf("ROYALE_STORAGE must be memory, redis or sqlite, got %q", c.StorageType)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("ROYALE_PORT out of range: %d", c.Port)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// SlogLevel returns the configured log level
func (c Server) SlogLevel() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(value string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(value))); err != nil {
		return slog.LevelInfo, fmt.Errorf("ROYALE_LOG_LEVEL: %w", err)
	}
	return level, nil
}

// FactoryConfig converts the server config into the application factory config
func (c Server) FactoryConfig(logger *slog.Logger) factory.Config {
	cfg := factory.Config{
		HostKeyConfig: hostkey.Config{Cost: c.HostKeyCost},
		Logger:        logger,
		StorageType:   c.StorageType,
		SQLitePath:    c.SQLitePath,
	}
	if c.StorageType == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = c.RedisURL
		redisCfg.MatchTTL = c.RedisMatchTTL
		cfg.RedisConfig = &redisCfg
	}
	return cfg
}

// HTTPConfig converts the server config into the HTTP server config
func (c Server) HTTPConfig() api.ServerConfig {
	return api.ServerConfig{
		Host:            c.Host,
		Port:            c.Port,
		ReadTimeout:     c.ReadTimeout,
		WriteTimeout:    c.WriteTimeout,
		ShutdownTimeout: c.ShutdownTimeout,
	}
}
