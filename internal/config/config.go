// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() builds a Config with defaults; Load layers a file and env on top.
// - Load accepts context.Context as the first parameter.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log lines.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// StoreBackend selects where the activity directory lives: memory or redis.
	StoreBackend string `koanf:"store_backend"`

	// Redis connection settings, used when StoreBackend is redis.
	RedisAddr      string `koanf:"redis_addr"`
	RedisPassword  string `koanf:"redis_password"`
	RedisDB        int    `koanf:"redis_db"`
	RedisKeyPrefix string `koanf:"redis_key_prefix"`

	// CatalogFile points to a YAML activity catalog. Empty uses the built-in one.
	CatalogFile string `koanf:"catalog_file"`

	// EnforceCapacity rejects signups once max_participants is reached.
	EnforceCapacity bool `koanf:"enforce_capacity"`

	// EventQueueSize bounds the in-memory roster event queue.
	EventQueueSize int `koanf:"event_queue_size"`

	// NotifierWorkers sets the number of roster event consumers.
	NotifierWorkers int `koanf:"notifier_workers"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":8000",
		StoreBackend:    BackendMemory,
		RedisAddr:       "localhost:6379",
		RedisKeyPrefix:  "mergington",
		EventQueueSize:  1024,
		NotifierWorkers: 2,
	}
}

// Validate checks the fields Load cannot default.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.StoreBackend {
	case BackendMemory:
	case BackendRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			return fmt.Errorf("%w: redis_addr must not be empty for the redis backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store_backend %q", ErrInvalidConfig, c.StoreBackend)
	}
	if c.EventQueueSize < 1 {
		return fmt.Errorf("%w: event_queue_size must be positive", ErrInvalidConfig)
	}
	if c.NotifierWorkers < 1 {
		return fmt.Errorf("%w: notifier_workers must be positive", ErrInvalidConfig)
	}
	return nil
}
