// Package service implements the registration domain logic: the validated
// state transitions over per-account registration records and the
// admin-gated configuration.
//
// Per account the record moves absent → registered → absent, with registered
// self-transitioning on referrer updates. There is no per-record "expired"
// state: the deadline is a global gate on the register transition only.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"registrar/internal/registration/metrics"
	"registrar/internal/registration/models"
	"registrar/internal/registration/notifier"
	id "registrar/pkg/domain"
	dErrors "registrar/pkg/domain-errors"
	"registrar/pkg/platform/sentinel"
	"registrar/pkg/requestcontext"
)

// RegistrationStore is the persistence contract the service depends on.
// Put is an unconditional upsert; the service's pre-mutation existence check
// is what turns it into create-only semantics on Register.
type RegistrationStore interface {
	Find(ctx context.Context, address id.AccountID) (*models.Registration, error)
	Put(ctx context.Context, record *models.Registration) error
	Delete(ctx context.Context, address id.AccountID) error
}

// ConfigStore holds the singleton service configuration.
type ConfigStore interface {
	Read(ctx context.Context) (models.Config, error)
	Write(ctx context.Context, cfg models.Config) error
}

// Notifier receives change descriptors on successful mutation.
type Notifier interface {
	Emit(ctx context.Context, event notifier.Event) error
}

// Service orchestrates registration lifecycle and configuration management.
// Caller identity and the current time are read from the request context so
// the core stays pure and independently testable.
//
// Every operation either fully commits its state change or applies nothing:
// validation always precedes mutation. The store write is the commit point;
// a notifier failure after it is logged, not surfaced, so observers are
// at-least-once relative to committed state.
type Service struct {
	registrations RegistrationStore
	config        ConfigStore
	notifier      Notifier
	logger        *slog.Logger
	metrics       *metrics.Metrics
	tracer        trace.Tracer
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// New constructs a Service. Without options it logs to the default slog
// logger, traces to the global (no-op) tracer, and drops notifications.
func New(registrations RegistrationStore, config ConfigStore, opts ...Option) *Service {
	s := &Service{
		registrations: registrations,
		config:        config,
		logger:        slog.Default(),
		tracer:        otel.Tracer("registrar/registration"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bootstrap seeds the configuration on first start: admin is the deployment's
// bootstrap identity, deadline the configured registration cutoff. An already
// seeded configuration is left untouched so restarts never reset an
// admin-updated deadline.
func (s *Service) Bootstrap(ctx context.Context, admin id.AccountID, deadline time.Time, enforceDeadline bool) error {
	if admin.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "bootstrap admin is required")
	}
	_, err := s.config.Read(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read configuration")
	}
	cfg := models.Config{Admin: admin, Deadline: deadline, DeadlineEnforced: enforceDeadline}
	if err := s.config.Write(ctx, cfg); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to seed configuration")
	}
	return nil
}

// Config returns the current admin and deadline.
func (s *Service) Config(ctx context.Context) (models.Config, error) {
	ctx, span := s.tracer.Start(ctx, "registration.Config")
	defer span.End()

	cfg, err := s.config.Read(ctx)
	if err != nil {
		return models.Config{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read configuration")
	}
	return cfg, nil
}

// Show returns the registration for the given address.
func (s *Service) Show(ctx context.Context, address id.AccountID) (*models.Registration, error) {
	ctx, span := s.tracer.Start(ctx, "registration.Show")
	defer span.End()

	record, err := s.registrations.Find(ctx, address)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "registration not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load registration")
	}
	return record, nil
}

// Register creates a registration for the caller.
//
// Validation order is fixed as deadline → self-referral → duplicate: each
// check has a distinct failure reason and callers depend on receiving the
// first applicable one.
func (s *Service) Register(ctx context.Context, referrer *id.AccountID) (*models.Registration, error) {
	ctx, span := s.tracer.Start(ctx, "registration.Register")
	defer span.End()

	caller := requestcontext.Caller(ctx)
	if caller.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "caller identity required")
	}
	now := requestcontext.Now(ctx)

	cfg, err := s.config.Read(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read configuration")
	}
	if cfg.Closed(now) {
		s.incrementRejected(metrics.ReasonClosed)
		return nil, dErrors.New(dErrors.CodeUnprocessable, "registration closed")
	}

	if referrer != nil && *referrer == caller {
		s.incrementRejected(metrics.ReasonSelfReferral)
		return nil, dErrors.New(dErrors.CodeUnprocessable, "referrer cannot be the registrant")
	}

	if _, err := s.registrations.Find(ctx, caller); err == nil {
		s.incrementRejected(metrics.ReasonDuplicate)
		return nil, dErrors.New(dErrors.CodeUnprocessable, "already registered")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check existing registration")
	}

	record, err := models.NewRegistration(caller, referrer, now)
	if err != nil {
		return nil, err
	}
	if err := s.registrations.Put(ctx, record); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store registration")
	}

	s.emit(ctx, notifier.Event{
		Kind:     notifier.EventRegistered,
		Address:  record.Address,
		Referrer: record.Referrer,
		At:       now,
	})
	if s.metrics != nil {
		s.metrics.IncrementCreated()
	}
	return record, nil
}

// Update replaces the caller's referrer. The address is immutable; a missing
// registration surfaces as NotFound unchanged.
func (s *Service) Update(ctx context.Context, referrer *id.AccountID) (*models.Registration, error) {
	ctx, span := s.tracer.Start(ctx, "registration.Update")
	defer span.End()

	caller := requestcontext.Caller(ctx)
	if caller.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "caller identity required")
	}
	now := requestcontext.Now(ctx)

	record, err := s.Show(ctx, caller)
	if err != nil {
		return nil, err
	}
	if err := record.SetReferrer(referrer, now); err != nil {
		s.incrementRejected(metrics.ReasonSelfReferral)
		return nil, err
	}
	if err := s.registrations.Put(ctx, record); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store registration")
	}

	s.emit(ctx, notifier.Event{
		Kind:     notifier.EventUpdated,
		Address:  record.Address,
		Referrer: record.Referrer,
		At:       now,
	})
	if s.metrics != nil {
		s.metrics.IncrementUpdated()
	}
	return record, nil
}

// Destroy removes the caller's registration. Unlike the store's delete it is
// not idempotent: destroying an absent registration is NotFound.
func (s *Service) Destroy(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "registration.Destroy")
	defer span.End()

	caller := requestcontext.Caller(ctx)
	if caller.IsNil() {
		return dErrors.New(dErrors.CodeUnauthorized, "caller identity required")
	}

	if _, err := s.Show(ctx, caller); err != nil {
		return err
	}
	if err := s.registrations.Delete(ctx, caller); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete registration")
	}
	if s.metrics != nil {
		s.metrics.IncrementDestroyed()
	}
	return nil
}

// UpdateConfig replaces the registration deadline. Only the admin may call
// it; the new value is deliberately unvalidated (a past deadline closes the
// window, enforcement happens at registration time).
func (s *Service) UpdateConfig(ctx context.Context, deadline time.Time) error {
	ctx, span := s.tracer.Start(ctx, "registration.UpdateConfig")
	defer span.End()

	caller := requestcontext.Caller(ctx)
	if caller.IsNil() {
		return dErrors.New(dErrors.CodeUnauthorized, "caller identity required")
	}

	cfg, err := s.config.Read(ctx)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read configuration")
	}
	if err := cfg.CanSetDeadline(caller); err != nil {
		return err
	}
	cfg.ApplyDeadline(deadline)
	if err := s.config.Write(ctx, cfg); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to write configuration")
	}
	return nil
}

func (s *Service) emit(ctx context.Context, event notifier.Event) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit registration event",
			"kind", event.Kind,
			"address", event.Address,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
}

func (s *Service) incrementRejected(reason string) {
	if s.metrics != nil {
		s.metrics.IncrementRejected(reason)
	}
}
