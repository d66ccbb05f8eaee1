// Package config loads server settings from RAIL_* environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// MemoryDBPath selects the in-memory store instead of SQLite.
const MemoryDBPath = ":memory:"

// Config is the complete server configuration.
type Config struct {
	Port      int    `envconfig:"PORT" default:"8080"`
	DBPath    string `envconfig:"DB_PATH" default:"./data/rail.db"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"24h"`

	// RedisAddr enables the report cache when set.
	RedisAddr string        `envconfig:"REDIS_ADDR"`
	RedisDB   int           `envconfig:"REDIS_DB" default:"0"`
	CacheTTL  time.Duration `envconfig:"CACHE_TTL" default:"5m"`

	TopLimit int `envconfig:"TOP_LIMIT" default:"10"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("RAIL", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if len(c.JWTSecret) < 16 {
		return fmt.Errorf("RAIL_JWT_SECRET must be at least 16 characters")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("RAIL_TOKEN_TTL must be positive")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("RAIL_CACHE_TTL must be positive")
	}
	if c.TopLimit <= 0 {
		return fmt.Errorf("RAIL_TOP_LIMIT must be positive")
	}
	return nil
}

// InMemory reports whether the in-memory store was requested.
func (c *Config) InMemory() bool {
	return c.DBPath == MemoryDBPath
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
