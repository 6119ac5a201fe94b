// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// Quote metrics
	QuotesTotal        *prometheus.CounterVec
	QuoteDuration      prometheus.Histogram
	StaleQuotesDropped prometheus.Counter

	// Reserve metrics
	PairLookups *prometheus.CounterVec

	// Execution metrics
	ApprovalsTotal *prometheus.CounterVec
	SwapsTotal     *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance on its own registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "swap_interface"
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		QuotesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "quote",
			Name:      "computed_total",
			Help:      "Total number of quote computations by outcome",
		}, []string{"outcome"}),
		QuoteDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "quote",
			Name:      "duration_seconds",
			Help:      "Time to compute a quote including reserve reads",
			Buckets:   prometheus.DefBuckets,
		}),
		StaleQuotesDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "quote",
			Name:      "stale_dropped_total",
			Help:      "Quote results discarded because a newer request superseded them",
		}),

		PairLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reserves",
			Name:      "pair_lookups_total",
			Help:      "Pair reserve lookups by result",
		}, []string{"result"}),

		ApprovalsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "executor",
			Name:      "approvals_total",
			Help:      "Approval submissions by outcome",
		}, []string{"outcome"}),
		SwapsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "executor",
			Name:      "swaps_total",
			Help:      "Swap submissions by call kind and outcome",
		}, []string{"kind", "outcome"}),
	}
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveQuote records one quote computation
func (m *Metrics) ObserveQuote(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.QuotesTotal.WithLabelValues(outcome).Inc()
	m.QuoteDuration.Observe(seconds)
}

// StaleQuote records a superseded result
func (m *Metrics) StaleQuote() {
	if m == nil {
		return
	}
	m.StaleQuotesDropped.Inc()
}

// PairLookup records one reserve lookup: found, absent or error
func (m *Metrics) PairLookup(result string) {
	if m == nil {
		return
	}
	m.PairLookups.WithLabelValues(result).Inc()
}

// Approval records an approval outcome
func (m *Metrics) Approval(outcome string) {
	if m == nil {
		return
	}
	m.ApprovalsTotal.WithLabelValues(outcome).Inc()
}

// Swap records a swap outcome
func (m *Metrics) Swap(kind, outcome string) {
	if m == nil {
		return
	}
	m.SwapsTotal.WithLabelValues(kind, outcome).Inc()
}
