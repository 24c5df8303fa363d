package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Reconciliation outcomes.
const (
	OutcomeUnfiltered = "unfiltered"
	OutcomeComplete   = "complete"
	OutcomePartial    = "partial"
	OutcomeFailed     = "failed"
)

// Metrics holds the service's Prometheus collectors on a private registry.
type Metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errors          *prometheus.CounterVec
	reconciliations *prometheus.CounterVec
	created         prometheus.Counter
	createFailures  prometheus.Counter
	forestNodes     *prometheus.HistogramVec
}

// NewMetrics registers every collector.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orgchart_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "orgchart_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orgchart_http_errors_total",
			Help: "HTTP errors by domain error code.",
		}, []string{"route", "method", "code"}),
		reconciliations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orgchart_reconciliations_total",
			Help: "Whitelist reconciliations by outcome.",
		}, []string{"outcome"}),
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orgchart_designations_created_total",
			Help: "Designations materialized from department whitelists.",
		}),
		createFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orgchart_designation_create_failures_total",
			Help: "Whitelist titles that failed to materialize.",
		}),
		forestNodes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "orgchart_forest_build_nodes",
			Help:    "Number of nodes per forest build.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}, []string{"kind"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.requestDuration,
		m.errors,
		m.reconciliations,
		m.created,
		m.createFailures,
		m.forestNodes,
	)
	return m
}

// Registry exposes the registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(route, method, code).Inc()
}

// RecordReconciliation counts one reconciliation run.
func (m *Metrics) RecordReconciliation(outcome string, created, failed int) {
	if m == nil {
		return
	}
	m.reconciliations.WithLabelValues(outcome).Inc()
	m.created.Add(float64(created))
	m.createFailures.Add(float64(failed))
}

// ObserveForest records the size of a built forest.
func (m *Metrics) ObserveForest(kind string, nodes int) {
	if m == nil {
		return
	}
	m.forestNodes.WithLabelValues(kind).Observe(float64(nodes))
}
