package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"registrar/internal/registration/models"
	"registrar/internal/registration/notifier"
	"registrar/internal/registration/service"
	configstore "registrar/internal/registration/store/config"
	regstore "registrar/internal/registration/store/registration"
	id "registrar/pkg/domain"
	dErrors "registrar/pkg/domain-errors"
	"registrar/pkg/requestcontext"
)

// The registration window in these tests closes strictly after deadline.
var deadline = time.Unix(1000, 0).UTC()

type ServiceSuite struct {
	suite.Suite
	registrations *regstore.InMemory
	configs       *configstore.InMemory
	events        *notifier.InMemory
	svc           *service.Service

	admin   id.AccountID
	alice   id.AccountID
	bob     id.AccountID
	charlie id.AccountID
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.registrations = regstore.NewInMemory()
	s.configs = configstore.NewInMemory()
	s.events = notifier.NewInMemory()
	s.svc = service.New(s.registrations, s.configs,
		service.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		service.WithNotifier(s.events),
	)

	s.admin = id.AccountID(uuid.New())
	s.alice = id.AccountID(uuid.New())
	s.bob = id.AccountID(uuid.New())
	s.charlie = id.AccountID(uuid.New())

	s.Require().NoError(s.svc.Bootstrap(context.Background(), s.admin, deadline, true))
}

// as builds a context carrying the caller identity and a fixed clock, the
// way the middleware chain would for a real request.
func (s *ServiceSuite) as(caller id.AccountID, at time.Time) context.Context {
	ctx := requestcontext.WithTime(context.Background(), at)
	return requestcontext.WithCaller(ctx, caller)
}

func (s *ServiceSuite) TestRegister() {
	s.Run("creates a registration without a referrer", func() {
		record, err := s.svc.Register(s.as(s.bob, deadline), nil)
		s.Require().NoError(err)
		s.Equal(s.bob, record.Address)
		s.Nil(record.Referrer)
		s.Equal(deadline, record.RegisteredAt)
	})

	s.Run("creates a registration with a referrer", func() {
		record, err := s.svc.Register(s.as(s.charlie, deadline), &s.alice)
		s.Require().NoError(err)
		s.Equal(s.charlie, record.Address)
		s.Require().NotNil(record.Referrer)
		s.Equal(s.alice, *record.Referrer)
	})

	s.Run("emits a register event per creation", func() {
		events := s.events.Events()
		s.Require().Len(events, 2)
		s.Equal(notifier.EventRegistered, events[0].Kind)
		s.Equal(s.bob, events[0].Address)
		s.Equal(notifier.EventRegistered, events[1].Kind)
		s.Require().NotNil(events[1].Referrer)
		s.Equal(s.alice, *events[1].Referrer)
	})

	s.Run("requires a caller identity", func() {
		ctx := requestcontext.WithTime(context.Background(), deadline)
		_, err := s.svc.Register(ctx, nil)
		s.True(dErrors.Is(err, dErrors.CodeUnauthorized))
	})
}

func (s *ServiceSuite) TestRegisterUniqueness() {
	_, err := s.svc.Register(s.as(s.bob, deadline), nil)
	s.Require().NoError(err)

	_, err = s.svc.Register(s.as(s.bob, deadline), &s.alice)
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeUnprocessable))
	s.Contains(err.Error(), "already registered")

	// Only the first attempt produced an event.
	s.Len(s.events.Events(), 1)
}

func (s *ServiceSuite) TestRegisterSelfReferral() {
	_, err := s.svc.Register(s.as(s.bob, deadline), &s.bob)
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeUnprocessable))
	s.Contains(err.Error(), "referrer cannot be the registrant")

	// The ban holds regardless of store state: an existing record for a
	// different account changes nothing.
	_, err = s.svc.Register(s.as(s.alice, deadline), nil)
	s.Require().NoError(err)
	_, err = s.svc.Register(s.as(s.bob, deadline), &s.bob)
	s.True(dErrors.Is(err, dErrors.CodeUnprocessable))
}

func (s *ServiceSuite) TestRegisterDeadline() {
	s.Run("admits at exactly the deadline", func() {
		_, err := s.svc.Register(s.as(s.bob, deadline), nil)
		s.Require().NoError(err)
	})

	s.Run("rejects strictly after the deadline", func() {
		_, err := s.svc.Register(s.as(s.charlie, deadline.Add(time.Second)), nil)
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeUnprocessable))
		s.Contains(err.Error(), "registration closed")
	})

	s.Run("admits late registrations when enforcement is off", func() {
		cfg := models.Config{Admin: s.admin, Deadline: deadline, DeadlineEnforced: false}
		s.Require().NoError(s.configs.Write(context.Background(), cfg))

		_, err := s.svc.Register(s.as(s.alice, deadline.Add(time.Hour)), nil)
		s.Require().NoError(err)
	})
}

// TestRegisterValidationOrder pins the fixed deadline → self-referral →
// duplicate ordering: callers depend on receiving the first applicable
// failure reason.
func (s *ServiceSuite) TestRegisterValidationOrder() {
	s.Run("deadline wins over self-referral", func() {
		_, err := s.svc.Register(s.as(s.bob, deadline.Add(time.Second)), &s.bob)
		s.Require().Error(err)
		s.Contains(err.Error(), "registration closed")
	})

	s.Run("self-referral wins over duplicate", func() {
		_, err := s.svc.Register(s.as(s.bob, deadline), nil)
		s.Require().NoError(err)

		_, err = s.svc.Register(s.as(s.bob, deadline), &s.bob)
		s.Require().Error(err)
		s.Contains(err.Error(), "referrer cannot be the registrant")
	})
}

func (s *ServiceSuite) TestShow() {
	_, err := s.svc.Show(context.Background(), s.bob)
	s.True(dErrors.Is(err, dErrors.CodeNotFound))

	_, err = s.svc.Register(s.as(s.bob, deadline), &s.alice)
	s.Require().NoError(err)

	record, err := s.svc.Show(context.Background(), s.bob)
	s.Require().NoError(err)
	s.Equal(s.bob, record.Address)
	s.Require().NotNil(record.Referrer)
	s.Equal(s.alice, *record.Referrer)
}

func (s *ServiceSuite) TestUpdate() {
	s.Run("fails with NotFound when absent", func() {
		_, err := s.svc.Update(s.as(s.bob, deadline), &s.alice)
		s.True(dErrors.Is(err, dErrors.CodeNotFound))
	})

	s.Run("replaces only the referrer", func() {
		created, err := s.svc.Register(s.as(s.bob, deadline), &s.alice)
		s.Require().NoError(err)

		later := deadline.Add(time.Minute)
		updated, err := s.svc.Update(s.as(s.bob, later), nil)
		s.Require().NoError(err)
		s.Equal(s.bob, updated.Address)
		s.Nil(updated.Referrer)
		s.Equal(created.RegisteredAt, updated.RegisteredAt)
		s.Equal(later, updated.UpdatedAt)
	})

	s.Run("rejects self-referral", func() {
		_, err := s.svc.Update(s.as(s.bob, deadline), &s.bob)
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeUnprocessable))
	})

	s.Run("works past the deadline", func() {
		// Expiry gates register only; existing records stay mutable.
		_, err := s.svc.Update(s.as(s.bob, deadline.Add(time.Hour)), &s.charlie)
		s.Require().NoError(err)
	})

	s.Run("emits an update event", func() {
		events := s.events.Events()
		s.Require().NotEmpty(events)
		last := events[len(events)-1]
		s.Equal(notifier.EventUpdated, last.Kind)
		s.Equal(s.bob, last.Address)
	})
}

func (s *ServiceSuite) TestDestroy() {
	_, err := s.svc.Register(s.as(s.bob, deadline), &s.alice)
	s.Require().NoError(err)
	emitted := len(s.events.Events())

	s.Require().NoError(s.svc.Destroy(s.as(s.bob, deadline)))

	_, err = s.svc.Show(context.Background(), s.bob)
	s.True(dErrors.Is(err, dErrors.CodeNotFound))

	// Destroy is not idempotent: the second attempt is NotFound.
	err = s.svc.Destroy(s.as(s.bob, deadline))
	s.True(dErrors.Is(err, dErrors.CodeNotFound))

	// No destroy event in the canonical behavior.
	s.Len(s.events.Events(), emitted)

	// The address can register again after destroy.
	_, err = s.svc.Register(s.as(s.bob, deadline), nil)
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestUpdateConfig() {
	newDeadline := deadline.Add(24 * time.Hour)

	s.Run("rejects non-admin callers and leaves the deadline unchanged", func() {
		err := s.svc.UpdateConfig(s.as(s.bob, deadline), newDeadline)
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeUnauthorized))

		cfg, err := s.svc.Config(context.Background())
		s.Require().NoError(err)
		s.Equal(deadline, cfg.Deadline)
	})

	s.Run("admin replaces the deadline", func() {
		s.Require().NoError(s.svc.UpdateConfig(s.as(s.admin, deadline), newDeadline))

		cfg, err := s.svc.Config(context.Background())
		s.Require().NoError(err)
		s.Equal(newDeadline, cfg.Deadline)
		s.Equal(s.admin, cfg.Admin)
	})

	s.Run("accepts a deadline in the past", func() {
		past := deadline.Add(-time.Hour)
		s.Require().NoError(s.svc.UpdateConfig(s.as(s.admin, deadline), past))

		// Enforcement happens at registration time, not at set time.
		_, err := s.svc.Register(s.as(s.charlie, deadline), nil)
		s.True(dErrors.Is(err, dErrors.CodeUnprocessable))
	})
}

func (s *ServiceSuite) TestBootstrap() {
	// A second bootstrap never resets a seeded configuration.
	other := id.AccountID(uuid.New())
	s.Require().NoError(s.svc.Bootstrap(context.Background(), other, deadline.Add(time.Hour), false))

	cfg, err := s.svc.Config(context.Background())
	s.Require().NoError(err)
	s.Equal(s.admin, cfg.Admin)
	s.Equal(deadline, cfg.Deadline)
}

// TestLifecycleScenario walks the canonical end-to-end script: deadline=1000,
// bob registers with alice at the deadline, charlie arrives too late, bob
// clears the referrer, then destroys the registration.
func (s *ServiceSuite) TestLifecycleScenario() {
	record, err := s.svc.Register(s.as(s.bob, deadline), &s.alice)
	s.Require().NoError(err)
	s.Equal(s.bob, record.Address)
	s.Require().NotNil(record.Referrer)
	s.Equal(s.alice, *record.Referrer)

	_, err = s.svc.Register(s.as(s.charlie, time.Unix(1001, 0).UTC()), nil)
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeUnprocessable))
	s.Contains(err.Error(), "registration closed")

	updated, err := s.svc.Update(s.as(s.bob, deadline), nil)
	s.Require().NoError(err)
	s.Equal(s.bob, updated.Address)
	s.Nil(updated.Referrer)

	s.Require().NoError(s.svc.Destroy(s.as(s.bob, deadline)))

	_, err = s.svc.Show(context.Background(), s.bob)
	s.True(dErrors.Is(err, dErrors.CodeNotFound))
}
