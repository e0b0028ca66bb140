package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	InvoicesCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invoices_created_total",
			Help: "Invoices created, by document kind",
		},
		[]string{"kind"},
	)

	PaymentsRecordedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_recorded_total",
			Help: "Payments recorded, by direction",
		},
		[]string{"direction"},
	)

	AdvanceAppliedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "advance_applied_rupees_total",
			Help: "Cumulative advance credit auto-applied to new invoices",
		},
	)
)
