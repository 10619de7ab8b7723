package notifier

import (
	"context"
	"sync"
)

// InMemory records events for inspection. It is the sink of choice for unit
// tests and doubles as a local-development default.
type InMemory struct {
	mu     sync.RWMutex
	events []Event
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

func (n *InMemory) Emit(_ context.Context, event Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return nil
}

// Events returns a copy of everything emitted so far.
func (n *InMemory) Events() []Event {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return append([]Event{}, n.events...)
}

func (n *InMemory) Close() error {
	return nil
}
