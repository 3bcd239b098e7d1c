package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Engine metrics
	EventsCommitted *prometheus.CounterVec
	EventsReversed  prometheus.Counter
	EventErrors     *prometheus.CounterVec
	EventDuration   prometheus.Histogram

	// Balance gauges, updated on snapshot reads
	OperativeCash     prometheus.Gauge
	AccumulatedProfit prometheus.Gauge

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBRetries prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		EventsCommitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_events_committed_total",
			Help: "Total number of committed ledger events",
		}, []string{"kind"}),
		EventsReversed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_events_reversed_total",
			Help: "Total number of reversed ledger events",
		}),
		EventErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_event_errors_total",
			Help: "Total number of rejected ledger events",
		}, []string{"kind", "error"}),
		EventDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledger_event_duration_seconds",
			Help:    "Duration of ledger event processing",
			Buckets: prometheus.DefBuckets,
		}),
		OperativeCash: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "ledger_operative_cash",
			Help: "Current operative cash balance",
		}),
		AccumulatedProfit: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "ledger_accumulated_profit",
			Help: "Current accumulated profit",
		}),
		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ledger_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		DBRetries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_db_retries_total",
			Help: "Total number of retried database transactions",
		}),
	}
}
