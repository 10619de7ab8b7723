package notifier

import (
	"context"
	"log/slog"
	"sync"

	"registrar/pkg/requestcontext"
)

// Publisher decorates a sink with timestamp stamping and an optional async
// buffer. In sync mode Emit delivers before returning; in async mode Emit
// enqueues and a single worker drains the buffer, with Close blocking until
// everything queued has been delivered. Emits racing or following Close are
// dropped with a warning, never a panic.
type Publisher struct {
	sink   Notifier
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
	buffer chan Event
	done   chan struct{}
}

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

// WithAsyncBuffer switches the publisher to asynchronous delivery with the
// given buffer size. Emit never blocks on the sink; a full buffer drops the
// event with a logged warning rather than stalling the request path.
func WithAsyncBuffer(size int) PublisherOption {
	return func(p *Publisher) {
		if size > 0 {
			p.buffer = make(chan Event, size)
		}
	}
}

// WithPublisherLogger sets the logger used for delivery failures.
func WithPublisherLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func NewPublisher(sink Notifier, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		sink:   sink,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.buffer != nil {
		p.done = make(chan struct{})
		go p.drain()
	}
	return p
}

func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.At.IsZero() {
		event.At = requestcontext.Now(ctx)
	}
	if p.buffer == nil {
		p.mu.Lock()
		closed := p.closed
		p.mu.Unlock()
		if closed {
			p.dropClosed(event)
			return nil
		}
		return p.sink.Emit(ctx, event)
	}
	// The send must be serialized with Close, which closes the channel.
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		p.dropClosed(event)
		return nil
	}
	select {
	case p.buffer <- event:
		return nil
	default:
		p.logger.Warn("notifier buffer full, dropping event",
			"kind", event.Kind,
			"address", event.Address,
		)
		return nil
	}
}

func (p *Publisher) dropClosed(event Event) {
	p.logger.Warn("notifier closed, dropping event",
		"kind", event.Kind,
		"address", event.Address,
	)
}

func (p *Publisher) drain() {
	defer close(p.done)
	for event := range p.buffer {
		if err := p.sink.Emit(context.Background(), event); err != nil {
			p.logger.Error("failed to deliver event",
				"kind", event.Kind,
				"address", event.Address,
				"error", err,
			)
		}
	}
}

// Close drains any buffered events and closes the underlying sink. It is
// idempotent.
func (p *Publisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	if p.buffer != nil {
		close(p.buffer)
	}
	p.mu.Unlock()

	if p.done != nil {
		<-p.done
	}
	return p.sink.Close()
}
