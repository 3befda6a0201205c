package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the service counters. Constructed once in main and passed
// to the delivery layer.
type Metrics struct {
	registry *prometheus.Registry

	AuthAttempts  *prometheus.CounterVec
	GateDecisions *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		AuthAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fyndflip_auth_attempts_total",
			Help: "Auth operations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		GateDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fyndflip_gate_decisions_total",
			Help: "Protected-route gate decisions by outcome.",
		}, []string{"outcome"}),
	}
}

// Handler serves the prometheus exposition endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
