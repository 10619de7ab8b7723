package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("REGISTRAR_ADMIN_ACCOUNT", "7f8b2e1a-4c5d-4e6f-8a9b-0c1d2e3f4a5b")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, StoreMemory, cfg.StoreBackend)
	assert.Equal(t, "registrar.registrations", cfg.KafkaTopic)
	assert.Zero(t, cfg.NotifierBuffer)
	assert.True(t, cfg.DeadlineEnforced)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("REGISTRAR_ADDR", ":9090")
	t.Setenv("REGISTRAR_STORE", "postgres")
	t.Setenv("REGISTRAR_POSTGRES_DSN", "postgres://localhost:5432/registrar?sslmode=disable")
	t.Setenv("REGISTRAR_KAFKA_BROKERS", "broker-1:9092,broker-2:9092")
	t.Setenv("REGISTRAR_NOTIFIER_BUFFER", "256")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, StorePostgres, cfg.StoreBackend)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 256, cfg.NotifierBuffer)
}

func TestFromEnvRejectsUnknownBackend(t *testing.T) {
	t.Setenv("REGISTRAR_STORE", "dynamo")

	_, err := FromEnv()
	require.Error(t, err)
}

func TestFromEnvRequiresBackendTarget(t *testing.T) {
	t.Setenv("REGISTRAR_STORE", "postgres")
	_, err := FromEnv()
	require.Error(t, err)

	t.Setenv("REGISTRAR_STORE", "redis")
	_, err = FromEnv()
	require.Error(t, err)
}

func TestFromEnvRequiresAdminForMemoryBackend(t *testing.T) {
	// The memory backend cannot carry a configuration across restarts, so a
	// server without a seed admin could only ever answer with errors.
	t.Setenv("REGISTRAR_STORE", "memory")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REGISTRAR_ADMIN_ACCOUNT")
}
