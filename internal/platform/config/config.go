// Package config loads service configuration from environment variables so
// main stays lean.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config captures everything the server needs at startup.
type Config struct {
	Addr     string `env:"REGISTRAR_ADDR" envDefault:":8080"`
	LogLevel string `env:"REGISTRAR_LOG_LEVEL" envDefault:"info"`

	// StoreBackend selects the persistence backend for both the
	// registration and config stores: memory, postgres, or redis.
	StoreBackend string `env:"REGISTRAR_STORE" envDefault:"memory"`
	PostgresDSN  string `env:"REGISTRAR_POSTGRES_DSN"`
	RedisURL     string `env:"REGISTRAR_REDIS_URL"`

	KafkaBrokers []string `env:"REGISTRAR_KAFKA_BROKERS"`
	KafkaTopic   string   `env:"REGISTRAR_KAFKA_TOPIC" envDefault:"registrar.registrations"`
	// NotifierBuffer > 0 switches event delivery to an async buffer of that
	// size; 0 keeps it synchronous.
	NotifierBuffer int `env:"REGISTRAR_NOTIFIER_BUFFER" envDefault:"0"`

	JWTSigningKey string `env:"REGISTRAR_JWT_SIGNING_KEY" envDefault:"dev-secret-key-change-in-production"`
	JWTIssuer     string `env:"REGISTRAR_JWT_ISSUER" envDefault:"registrar"`
	JWTAudience   string `env:"REGISTRAR_JWT_AUDIENCE" envDefault:"registrar"`

	// AdminAccount seeds the configuration admin on first start. Config
	// bootstrap is skipped when the store already holds a configuration.
	AdminAccount     string    `env:"REGISTRAR_ADMIN_ACCOUNT"`
	Deadline         time.Time `env:"REGISTRAR_DEADLINE"`
	DeadlineEnforced bool      `env:"REGISTRAR_DEADLINE_ENFORCED" envDefault:"true"`
}

// Supported store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// FromEnv parses the environment into a Config.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	switch cfg.StoreBackend {
	case StoreMemory, StorePostgres, StoreRedis:
	default:
		return Config{}, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
	if cfg.StoreBackend == StorePostgres && cfg.PostgresDSN == "" {
		return Config{}, fmt.Errorf("REGISTRAR_POSTGRES_DSN is required for the postgres backend")
	}
	if cfg.StoreBackend == StoreRedis && cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("REGISTRAR_REDIS_URL is required for the redis backend")
	}
	// The memory backend starts empty every boot; without an admin to seed
	// the configuration every operation would fail.
	if cfg.StoreBackend == StoreMemory && cfg.AdminAccount == "" {
		return Config{}, fmt.Errorf("REGISTRAR_ADMIN_ACCOUNT is required for the memory backend")
	}
	return cfg, nil
}
