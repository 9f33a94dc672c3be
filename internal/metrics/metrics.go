// Package metrics exposes Prometheus instrumentation for the archive service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	SearchesTotal         *prometheus.CounterVec
	SemanticFallbackTotal prometheus.Counter
	DocumentsCreatedTotal prometheus.Counter
	RelationsComputed     prometheus.Histogram

	registry *prometheus.Registry
}

// New creates and registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		SearchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "legajo",
			Name:      "searches_total",
			Help:      "Search requests served, by mode.",
		}, []string{"mode"}),
		SemanticFallbackTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "legajo",
			Name:      "semantic_fallback_total",
			Help:      "Semantic searches degraded to lexical after an oracle failure.",
		}),
		DocumentsCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "legajo",
			Name:      "documents_created_total",
			Help:      "Documents persisted through the API.",
		}),
		RelationsComputed: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "legajo",
			Name:      "relations_per_document",
			Help:      "Relation matches reported per classification run.",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50},
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.SearchesTotal,
		m.SemanticFallbackTotal,
		m.DocumentsCreatedTotal,
		m.RelationsComputed,
	)

	return m
}

// Registry returns the underlying registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
