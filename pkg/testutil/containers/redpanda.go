//go:build integration

package containers

import (
	"context"
	"fmt"
	"sync"
	"testing"

	tcredpanda "github.com/testcontainers/testcontainers-go/modules/redpanda"
)

// RedpandaContainer wraps a Kafka-compatible Redpanda broker.
type RedpandaContainer struct {
	Container *tcredpanda.Container
	Broker    string
}

var (
	redpandaOnce sync.Once
	redpandaInst *RedpandaContainer
	redpandaErr  error
)

// GetRedpanda returns the shared Redpanda container, starting it on first
// use.
func GetRedpanda(t *testing.T) *RedpandaContainer {
	t.Helper()

	redpandaOnce.Do(func() {
		redpandaInst, redpandaErr = startRedpanda()
	})
	if redpandaErr != nil {
		t.Fatalf("failed to start redpanda container: %v", redpandaErr)
	}
	return redpandaInst
}

func startRedpanda() (*RedpandaContainer, error) {
	ctx := context.Background()

	container, err := tcredpanda.Run(ctx, "docker.redpanda.com/redpandadata/redpanda:v24.1.2")
	if err != nil {
		return nil, fmt.Errorf("run redpanda: %w", err)
	}

	broker, err := container.KafkaSeedBroker(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("seed broker: %w", err)
	}

	return &RedpandaContainer{Container: container, Broker: broker}, nil
}
