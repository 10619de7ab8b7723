package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the registration module. Tracks
// lifecycle counts and the reasons registrations get rejected.
type Metrics struct {
	RegistrationsCreated   prometheus.Counter
	RegistrationsUpdated   prometheus.Counter
	RegistrationsDestroyed prometheus.Counter
	RegistrationsRejected  *prometheus.CounterVec
}

// Rejection reason label values.
const (
	ReasonClosed       = "closed"
	ReasonSelfReferral = "self_referral"
	ReasonDuplicate    = "duplicate"
)

// New creates a Metrics instance with all registration module metrics
// registered on the default registry.
func New() *Metrics {
	return &Metrics{
		RegistrationsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "registrar_registrations_created_total",
			Help: "Total number of registrations created",
		}),
		RegistrationsUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "registrar_registrations_updated_total",
			Help: "Total number of registration referrer updates",
		}),
		RegistrationsDestroyed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "registrar_registrations_destroyed_total",
			Help: "Total number of registrations destroyed",
		}),
		RegistrationsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "registrar_registrations_rejected_total",
			Help: "Total number of rejected registration attempts by reason",
		}, []string{"reason"}),
	}
}

// IncrementCreated records a successful registration.
func (m *Metrics) IncrementCreated() {
	m.RegistrationsCreated.Inc()
}

// IncrementUpdated records a successful referrer update.
func (m *Metrics) IncrementUpdated() {
	m.RegistrationsUpdated.Inc()
}

// IncrementDestroyed records a successful destroy.
func (m *Metrics) IncrementDestroyed() {
	m.RegistrationsDestroyed.Inc()
}

// IncrementRejected records a rejected registration attempt.
func (m *Metrics) IncrementRejected(reason string) {
	m.RegistrationsRejected.WithLabelValues(reason).Inc()
}
