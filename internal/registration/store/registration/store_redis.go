package registration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"registrar/internal/registration/models"
	id "registrar/pkg/domain"
	"registrar/pkg/platform/sentinel"
)

// Redis key prefix for registration records.
const registrationKeyPrefix = "reg:addr:"

// Redis persists registrations as JSON values keyed by account. This is the
// recommended backend for distributed deployments where multiple instances
// share registration state without a relational database.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (s *Redis) Find(ctx context.Context, address id.AccountID) (*models.Registration, error) {
	payload, err := s.client.Get(ctx, registrationKeyPrefix+address.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find registration: %w", err)
	}
	var record models.Registration
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("decode registration: %w", err)
	}
	return &record, nil
}

func (s *Redis) Put(ctx context.Context, record *models.Registration) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode registration: %w", err)
	}
	// SET overwrites unconditionally; records have no TTL.
	if err := s.client.Set(ctx, registrationKeyPrefix+record.Address.String(), payload, 0).Err(); err != nil {
		return fmt.Errorf("put registration: %w", err)
	}
	return nil
}

func (s *Redis) Delete(ctx context.Context, address id.AccountID) error {
	// DEL of a missing key returns 0 deleted, not an error, so idempotency
	// comes for free.
	if err := s.client.Del(ctx, registrationKeyPrefix+address.String()).Err(); err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	return nil
}
