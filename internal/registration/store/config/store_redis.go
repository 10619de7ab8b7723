package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"registrar/internal/registration/models"
	"registrar/pkg/platform/sentinel"
)

// Redis key for the singleton configuration.
const configKey = "reg:config"

// Redis persists the configuration as a single JSON value.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (s *Redis) Read(ctx context.Context) (models.Config, error) {
	payload, err := s.client.Get(ctx, configKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Config{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.Config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg models.Config
	if err := json.Unmarshal(payload, &cfg); err != nil {
		return models.Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func (s *Redis) Write(ctx context.Context, cfg models.Config) error {
	payload, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := s.client.Set(ctx, configKey, payload, 0).Err(); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
