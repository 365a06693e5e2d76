package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess        = "success"
	OutcomeBackendError   = "backend_error"
	OutcomeTimeout        = "timeout"
	OutcomeTransportError = "transport_error"
	OutcomeMalformed      = "malformed"
	OutcomeInvalid        = "invalid"
)

// Metrics records action outcomes. A nil *Metrics records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_action_requests_total",
			Help: "Portal backend actions by outcome.",
		}, []string{"action", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portal_action_duration_seconds",
			Help:    "Wall time of portal backend actions.",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 20, 30},
		}, []string{"action"}),
	}
}

func (m *Metrics) observe(action, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(action, outcome).Inc()
	m.duration.WithLabelValues(action).Observe(seconds)
}
