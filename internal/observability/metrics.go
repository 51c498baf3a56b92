// Package observability holds the Prometheus instruments for store queries
// and HTTP requests.
//
// Metrics are registered on a caller-supplied registerer so tests can use an
// isolated prometheus.NewRegistry(). All methods are nil-safe: a nil
// *Metrics records nothing.
package observability

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "crimestats"

// Error kinds recorded in the query error counter.
const (
	ErrorKindUnavailable = "unavailable"
	ErrorKindQuery       = "query"
)

// Metrics holds the Prometheus collectors.
type Metrics struct {
	// QueryDuration measures store query latency.
	// Labels: operation (monthly_offense_counts, heatmap, ...)
	QueryDuration *prometheus.HistogramVec

	// QueryErrors counts failed store queries.
	// Labels: operation, kind (unavailable, query)
	QueryErrors *prometheus.CounterVec

	// HTTPRequests counts served requests.
	// Labels: method, route, status
	HTTPRequests *prometheus.CounterVec
}

// NewMetrics creates and registers all collectors on reg.
//
// Panics if called twice with the same registerer (duplicate registration).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		QueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: "store",
				Name:      "query_duration_seconds",
				Help:      "Duration of store aggregation queries in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"operation"},
		),
		QueryErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "store",
				Name:      "query_errors_total",
				Help:      "Total failed store queries by operation and kind",
			},
			[]string{"operation", "kind"},
		),
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
	}
}

// ObserveQuery records one store query. unavailable is the sentinel that
// classifies connectivity failures; pass nil when no classification applies.
func (m *Metrics) ObserveQuery(operation string, start time.Time, err, unavailable error) {
	if m == nil {
		return
	}
	m.QueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err == nil {
		return
	}
	kind := ErrorKindQuery
	if unavailable != nil && errors.Is(err, unavailable) {
		kind = ErrorKindUnavailable
	}
	m.QueryErrors.WithLabelValues(operation, kind).Inc()
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route, status string) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, status).Inc()
}
