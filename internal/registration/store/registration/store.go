// Package registration provides storage backends for registration records.
//
// All backends share the same contract:
//   - Find is an exact-key lookup; a miss returns sentinel.ErrNotFound, which
//     is a valid outcome, not a failure
//   - Put is an unconditional upsert; the service layer decides whether an
//     upsert is semantically a create or an update
//   - Delete is idempotent; removing an absent key is a no-op
package registration

import (
	"context"

	"registrar/internal/registration/models"
	id "registrar/pkg/domain"
)

// Store is the registration persistence contract. Implementations are
// interface-driven to keep the domain logic testable and to allow swapping
// in-memory, PostgreSQL, or Redis persistence without rewiring business code.
type Store interface {
	Find(ctx context.Context, address id.AccountID) (*models.Registration, error)
	Put(ctx context.Context, record *models.Registration) error
	Delete(ctx context.Context, address id.AccountID) error
}
