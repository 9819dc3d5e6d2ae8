// Package metrics declares the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests by method, route and status",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by method and route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	ReconcileDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ledger_reconcile_duration_seconds",
		Help:    "Time spent reconciling one batch of delivery records",
		Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5},
	})

	ReconciledRecords = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_records_reconciled_total",
		Help: "Delivery records passed through the reconciler",
	})

	ExcludedRecords = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_records_excluded_total",
		Help: "Reconciled records left out of the running balance",
	})

	StatementCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_statement_cache_total",
		Help: "Statement cache lookups by result (hit or miss)",
	}, []string{"result"})

	ExportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_exports_total",
		Help: "Generated statement exports by format",
	}, []string{"format"})

	StreamClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ledger_stream_clients",
		Help: "Connected live ledger feed clients",
	})
)
