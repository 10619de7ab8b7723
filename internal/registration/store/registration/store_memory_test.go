package registration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"registrar/internal/registration/models"
	id "registrar/pkg/domain"
	"registrar/pkg/platform/sentinel"
)

type InMemorySuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func TestInMemorySuite(t *testing.T) {
	suite.Run(t, new(InMemorySuite))
}

func (s *InMemorySuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func (s *InMemorySuite) record(referrer *id.AccountID) *models.Registration {
	now := time.Unix(1000, 0).UTC()
	return &models.Registration{
		Address:      id.AccountID(uuid.New()),
		Referrer:     referrer,
		RegisteredAt: now,
		UpdatedAt:    now,
	}
}

func (s *InMemorySuite) TestFindMissing() {
	_, err := s.store.Find(s.ctx, id.AccountID(uuid.New()))
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemorySuite) TestPutAndFind() {
	referrer := id.AccountID(uuid.New())
	record := s.record(&referrer)
	s.Require().NoError(s.store.Put(s.ctx, record))

	found, err := s.store.Find(s.ctx, record.Address)
	s.Require().NoError(err)
	s.Equal(record.Address, found.Address)
	s.Require().NotNil(found.Referrer)
	s.Equal(referrer, *found.Referrer)
}

func (s *InMemorySuite) TestPutUpserts() {
	record := s.record(nil)
	s.Require().NoError(s.store.Put(s.ctx, record))

	referrer := id.AccountID(uuid.New())
	record.Referrer = &referrer
	record.UpdatedAt = record.UpdatedAt.Add(time.Minute)
	s.Require().NoError(s.store.Put(s.ctx, record))

	found, err := s.store.Find(s.ctx, record.Address)
	s.Require().NoError(err)
	s.Require().NotNil(found.Referrer)
	s.Equal(referrer, *found.Referrer)
	s.Equal(record.UpdatedAt, found.UpdatedAt)
}

func (s *InMemorySuite) TestFindReturnsCopy() {
	record := s.record(nil)
	s.Require().NoError(s.store.Put(s.ctx, record))

	found, err := s.store.Find(s.ctx, record.Address)
	s.Require().NoError(err)

	// Mutating the returned record must not leak into the store.
	referrer := id.AccountID(uuid.New())
	found.Referrer = &referrer

	again, err := s.store.Find(s.ctx, record.Address)
	s.Require().NoError(err)
	s.Nil(again.Referrer)
}

func (s *InMemorySuite) TestDeleteIsIdempotent() {
	record := s.record(nil)
	s.Require().NoError(s.store.Put(s.ctx, record))

	s.Require().NoError(s.store.Delete(s.ctx, record.Address))
	_, err := s.store.Find(s.ctx, record.Address)
	s.ErrorIs(err, sentinel.ErrNotFound)

	// A second delete of the same key is a no-op.
	s.Require().NoError(s.store.Delete(s.ctx, record.Address))
}
