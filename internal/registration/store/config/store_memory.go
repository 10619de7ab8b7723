package config

import (
	"context"
	"sync"

	"registrar/internal/registration/models"
	"registrar/pkg/platform/sentinel"
)

// InMemory holds the configuration in memory.
type InMemory struct {
	mu     sync.RWMutex
	cfg    models.Config
	seeded bool
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

func (s *InMemory) Read(_ context.Context) (models.Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.seeded {
		return models.Config{}, sentinel.ErrNotFound
	}
	return s.cfg, nil
}

func (s *InMemory) Write(_ context.Context, cfg models.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	s.seeded = true
	return nil
}
