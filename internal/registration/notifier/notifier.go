// Package notifier delivers registration change descriptors to external
// observers. The service decides what to notify; this package decides how the
// notification leaves the process.
package notifier

import (
	"context"
	"time"

	id "registrar/pkg/domain"
)

// EventKind distinguishes the structurally identical register and update
// payloads.
type EventKind string

const (
	EventRegistered EventKind = "register"
	EventUpdated    EventKind = "update"
)

// Event is the change descriptor emitted on successful mutation. Keep it
// transport-agnostic so sinks can fan out.
type Event struct {
	Kind     EventKind     `json:"kind"`
	Address  id.AccountID  `json:"address"`
	Referrer *id.AccountID `json:"referrer,omitempty"`
	At       time.Time     `json:"at"`
}

// Notifier receives change descriptors. Implementations must be safe for
// concurrent use.
type Notifier interface {
	Emit(ctx context.Context, event Event) error
	Close() error
}
