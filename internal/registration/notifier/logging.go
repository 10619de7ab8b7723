package notifier

import (
	"context"
	"log/slog"
)

// Logging writes events to the structured log. It is the fallback sink when
// no broker is configured, keeping change descriptors observable in
// single-node deployments.
type Logging struct {
	logger *slog.Logger
}

func NewLogging(logger *slog.Logger) *Logging {
	return &Logging{logger: logger}
}

func (n *Logging) Emit(ctx context.Context, event Event) error {
	attrs := []any{
		"kind", event.Kind,
		"address", event.Address,
		"at", event.At,
	}
	if event.Referrer != nil {
		attrs = append(attrs, "referrer", *event.Referrer)
	}
	n.logger.InfoContext(ctx, "registration event", attrs...)
	return nil
}

func (n *Logging) Close() error {
	return nil
}
