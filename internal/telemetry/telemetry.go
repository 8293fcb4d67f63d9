package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics counts the operations users drive against the app. Generation
// runs are labelled by kind (create/update/chat) and outcome.
type Metrics struct {
	registry *prometheus.Registry

	GenerationRuns *prometheus.CounterVec
	ToolDeletes    prometheus.Counter
	RequestsTotal  *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		GenerationRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "toolsmith",
			Name:      "generation_runs_total",
			Help:      "Generation runs by kind and outcome.",
		}, []string{"kind", "outcome"}),
		ToolDeletes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "toolsmith",
			Name:      "tool_deletes_total",
			Help:      "Tools deleted.",
		}),
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "toolsmith",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route.",
		}, []string{"route"}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
