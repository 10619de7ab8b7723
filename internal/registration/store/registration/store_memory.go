package registration

import (
	"context"
	"sync"

	"registrar/internal/registration/models"
	id "registrar/pkg/domain"
	"registrar/pkg/platform/sentinel"
)

// InMemory keeps registrations in a mutex-guarded map. It favors clarity over
// performance and is the default backend for tests and local development.
type InMemory struct {
	mu      sync.RWMutex
	records map[id.AccountID]models.Registration
}

func NewInMemory() *InMemory {
	return &InMemory{records: make(map[id.AccountID]models.Registration)}
}

func (s *InMemory) Find(_ context.Context, address id.AccountID) (*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if record, ok := s.records[address]; ok {
		// Copy out so callers cannot mutate stored state through the pointer.
		return &record, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) Put(_ context.Context, record *models.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.Address] = *record
	return nil
}

func (s *InMemory) Delete(_ context.Context, address id.AccountID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, address)
	return nil
}
