// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Known environments and log levels.
var (
	environments = []string{"development", "production", "test"}
	logLevels    = []string{"debug", "info", "warn", "error"}
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"OBLOG_DB_PATH" envDefault:"./data/oblog.db"`
	ServerHost string `env:"OBLOG_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"OBLOG_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"OBLOG_ENV" envDefault:"development"`
	LogLevel   string `env:"OBLOG_LOG_LEVEL" envDefault:"info"`

	// Media storage
	UploadsDir    string `env:"OBLOG_UPLOADS_DIR" envDefault:"./uploads"`
	MediaEndpoint string `env:"OBLOG_MEDIA_ENDPOINT" envDefault:"/media"` // URL prefix uploaded files are served from

	// Cache configuration
	RedisURL     string `env:"OBLOG_REDIS_URL"`                         // Optional Redis URL for distributed caching
	CachePrefix  string `env:"OBLOG_CACHE_PREFIX" envDefault:"oblog:"`  // Redis key prefix
	CacheTTL     int    `env:"OBLOG_CACHE_TTL" envDefault:"3600"`       // Default cache TTL in seconds
	CacheMaxSize int    `env:"OBLOG_CACHE_MAX_SIZE" envDefault:"10000"` // Max memory cache entries

	// API limits
	APIRateLimit   float64       `env:"OBLOG_API_RATE_LIMIT" envDefault:"10"` // Requests per second per client IP
	APIRateBurst   int           `env:"OBLOG_API_RATE_BURST" envDefault:"20"`
	RequestTimeout time.Duration `env:"OBLOG_REQUEST_TIMEOUT" envDefault:"30s"`

	// Maintenance
	EventRetentionDays int `env:"OBLOG_EVENT_RETENTION_DAYS" envDefault:"30"`

	// Seeding configuration
	DoSeed bool `env:"OBLOG_DO_SEED" envDefault:"true"` // Seed the default category and settings
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// SlogLevel returns the slog level for LogLevel.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// EventRetention is how long audit events are kept.
func (c Config) EventRetention() time.Duration {
	return time.Duration(c.EventRetentionDays) * 24 * time.Hour
}

// Load parses environment variables and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Env = strings.ToLower(cfg.Env)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.ServerPort < 1 || c.ServerPort > 65535 {
		return fmt.Errorf("OBLOG_SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort)
	}
	if !slices.Contains(environments, c.Env) {
		return fmt.Errorf("OBLOG_ENV must be one of %s, got %q", strings.Join(environments, ", "), c.Env)
	}
	if !slices.Contains(logLevels, c.LogLevel) {
		return fmt.Errorf("OBLOG_LOG_LEVEL must be one of %s, got %q", strings.Join(logLevels, ", "), c.LogLevel)
	}
	if c.APIRateLimit <= 0 {
		return fmt.Errorf("OBLOG_API_RATE_LIMIT must be positive, got %v", c.APIRateLimit)
	}
	if c.APIRateBurst < 1 {
		return fmt.Errorf("OBLOG_API_RATE_BURST must be at least 1, got %d", c.APIRateBurst)
	}
	if c.EventRetentionDays < 1 {
		return fmt.Errorf("OBLOG_EVENT_RETENTION_DAYS must be at least 1, got %d", c.EventRetentionDays)
	}
	if c.MediaEndpoint == "" {
		return fmt.Errorf("OBLOG_MEDIA_ENDPOINT must not be empty")
	}
	return nil
}
