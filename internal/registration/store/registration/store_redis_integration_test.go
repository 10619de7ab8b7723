//go:build integration

package registration_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"registrar/internal/registration/models"
	regstore "registrar/internal/registration/store/registration"
	id "registrar/pkg/domain"
	"registrar/pkg/platform/sentinel"
	"registrar/pkg/testutil/containers"
)

type RedisSuite struct {
	suite.Suite
	container *containers.RedisContainer
	store     *regstore.Redis
	ctx       context.Context
}

func TestRedisSuite(t *testing.T) {
	suite.Run(t, new(RedisSuite))
}

func (s *RedisSuite) SetupSuite() {
	s.container = containers.GetRedis(s.T())
	s.store = regstore.NewRedis(s.container.Client)
	s.ctx = context.Background()
}

func (s *RedisSuite) SetupTest() {
	s.Require().NoError(s.container.FlushAll(s.ctx))
}

func (s *RedisSuite) TestFindMissing() {
	_, err := s.store.Find(s.ctx, id.AccountID(uuid.New()))
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisSuite) TestPutFindDelete() {
	now := time.Now().UTC().Truncate(time.Millisecond)
	referrer := id.AccountID(uuid.New())
	record := &models.Registration{
		Address:      id.AccountID(uuid.New()),
		Referrer:     &referrer,
		RegisteredAt: now,
		UpdatedAt:    now,
	}
	s.Require().NoError(s.store.Put(s.ctx, record))

	found, err := s.store.Find(s.ctx, record.Address)
	s.Require().NoError(err)
	s.Equal(record.Address, found.Address)
	s.Require().NotNil(found.Referrer)
	s.Equal(referrer, *found.Referrer)
	s.True(now.Equal(found.RegisteredAt))

	s.Require().NoError(s.store.Delete(s.ctx, record.Address))
	_, err = s.store.Find(s.ctx, record.Address)
	s.ErrorIs(err, sentinel.ErrNotFound)

	// Delete of an absent key stays a no-op.
	s.Require().NoError(s.store.Delete(s.ctx, record.Address))
}

func (s *RedisSuite) TestPutUpserts() {
	now := time.Now().UTC().Truncate(time.Millisecond)
	record := &models.Registration{
		Address:      id.AccountID(uuid.New()),
		RegisteredAt: now,
		UpdatedAt:    now,
	}
	s.Require().NoError(s.store.Put(s.ctx, record))

	referrer := id.AccountID(uuid.New())
	record.Referrer = &referrer
	s.Require().NoError(s.store.Put(s.ctx, record))

	found, err := s.store.Find(s.ctx, record.Address)
	s.Require().NoError(err)
	s.Require().NotNil(found.Referrer)
	s.Equal(referrer, *found.Referrer)
}
