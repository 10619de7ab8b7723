package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"registrar/internal/registration/metrics"
	"registrar/internal/registration/service"
	configstore "registrar/internal/registration/store/config"
	regstore "registrar/internal/registration/store/registration"
	id "registrar/pkg/domain"
)

// metrics.New registers on the default registry, so this is the single test
// that constructs it.
func TestServiceMetrics(t *testing.T) {
	m := metrics.New()
	svc := service.New(regstore.NewInMemory(), configstore.NewInMemory(),
		service.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		service.WithMetrics(m),
	)

	admin := id.AccountID(uuid.New())
	bob := id.AccountID(uuid.New())
	at := time.Unix(1000, 0).UTC()
	require.NoError(t, svc.Bootstrap(context.Background(), admin, at, true))

	_, err := svc.Register(callerCtx(bob, at), nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.RegistrationsCreated))

	_, err = svc.Register(callerCtx(bob, at), nil)
	require.Error(t, err)
	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.RegistrationsRejected.WithLabelValues(metrics.ReasonDuplicate)))

	_, err = svc.Register(callerCtx(id.AccountID(uuid.New()), at.Add(time.Second)), nil)
	require.Error(t, err)
	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.RegistrationsRejected.WithLabelValues(metrics.ReasonClosed)))

	_, err = svc.Update(callerCtx(bob, at), &admin)
	require.NoError(t, err)
	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.RegistrationsUpdated))

	require.NoError(t, svc.Destroy(callerCtx(bob, at)))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.RegistrationsDestroyed))
}
