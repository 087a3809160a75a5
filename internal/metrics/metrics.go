// Package metrics exposes Prometheus counters for the environment service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "coffee_env"

// Metrics holds the service counters.
type Metrics struct {
	EnvironmentServed  *prometheus.CounterVec
	AuthorizeURLs      *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec
	DriftFindings      *prometheus.GaugeVec

	gatherer prometheus.Gatherer
}

// New registers the counters on reg. Pass prometheus.NewRegistry() in tests.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		EnvironmentServed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "environment_served_total",
			Help:      "Environment documents served, by format.",
		}, []string{"format"}),
		AuthorizeURLs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "authorize_urls_total",
			Help:      "Authorization request URLs built, by outcome.",
		}, []string{"outcome"}),
		ValidationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_failures_total",
			Help:      "Submitted environment documents rejected, by stage (schema or values).",
		}, []string{"stage"}),
		DriftFindings: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "drift_findings",
			Help:      "Current front-end/API disagreements, by field.",
		}, []string{"field"}),
		gatherer: reg,
	}
}

// SetDriftFindings replaces the drift gauge with one entry per finding field.
func (m *Metrics) SetDriftFindings(fields []string) {
	m.DriftFindings.Reset()
	for _, field := range fields {
		m.DriftFindings.WithLabelValues(field).Inc()
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
