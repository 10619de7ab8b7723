package models

import (
	"time"

	id "registrar/pkg/domain"
	dErrors "registrar/pkg/domain-errors"
)

// Registration is a per-account registration record.
//
// Invariants:
//   - Address is immutable after construction and doubles as the store key;
//     the redundant copy inside the record keeps reads self-contained
//   - Referrer, when present, never equals Address (no self-referral)
//   - At most one Registration exists per address; the store's Put is an
//     unconditional upsert, so the service's pre-mutation existence check is
//     what enforces create-only semantics
type Registration struct {
	Address      id.AccountID  `json:"address"`
	Referrer     *id.AccountID `json:"referrer,omitempty"`
	RegisteredAt time.Time     `json:"registered_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// NewRegistration constructs a validated record for the given account.
func NewRegistration(address id.AccountID, referrer *id.AccountID, now time.Time) (*Registration, error) {
	r := &Registration{
		Address:      address,
		Referrer:     referrer,
		RegisteredAt: now,
		UpdatedAt:    now,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks the record's invariants.
func (r *Registration) Validate() error {
	if r.Address.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "registration address is required")
	}
	if r.Referrer != nil && *r.Referrer == r.Address {
		return dErrors.New(dErrors.CodeUnprocessable, "referrer cannot be the registrant")
	}
	return nil
}

// ApplyReferrer replaces the referrer, the only mutable field. Call Validate
// afterwards, or use SetReferrer which does both.
func (r *Registration) ApplyReferrer(referrer *id.AccountID, now time.Time) {
	r.Referrer = referrer
	r.UpdatedAt = now
}

// SetReferrer validates and applies a referrer change in one call.
func (r *Registration) SetReferrer(referrer *id.AccountID, now time.Time) error {
	if referrer != nil && *referrer == r.Address {
		return dErrors.New(dErrors.CodeUnprocessable, "referrer cannot be the registrant")
	}
	r.ApplyReferrer(referrer, now)
	return nil
}

// Config is the singleton service configuration.
//
// Invariants:
//   - Admin is set once at bootstrap and only changes through the
//     admin-authorized update path
//   - Deadline carries no validation of its own; a past deadline simply means
//     registrations are closed (enforcement happens at registration time)
type Config struct {
	Admin            id.AccountID `json:"admin"`
	Deadline         time.Time    `json:"deadline"`
	DeadlineEnforced bool         `json:"deadline_enforced"`
}

// Closed reports whether the registration window is shut at the given
// instant. The window closes strictly after the deadline: now == Deadline is
// still open. When enforcement is off the window never closes.
func (c Config) Closed(now time.Time) bool {
	return c.DeadlineEnforced && now.After(c.Deadline)
}

// CanSetDeadline checks whether the caller may change the deadline.
func (c Config) CanSetDeadline(caller id.AccountID) error {
	if caller != c.Admin {
		return dErrors.New(dErrors.CodeUnauthorized, "only the admin can update the configuration")
	}
	return nil
}

// ApplyDeadline replaces the deadline. Call CanSetDeadline first; the value
// itself is deliberately unvalidated.
func (c *Config) ApplyDeadline(deadline time.Time) {
	c.Deadline = deadline
}
