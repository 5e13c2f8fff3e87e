package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AttemptsTotal tracks classified attempt outcomes.
	AttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pollready_attempts_total",
			Help: "Total number of polling attempts by classification",
		},
		[]string{"classification"},
	)

	// RetriesTotal tracks scheduled retries by error code.
	RetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pollready_retries_total",
			Help: "Total number of scheduled retries",
		},
		[]string{"reason"},
	)

	// OperationsTotal tracks finished operations by result.
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pollready_operations_total",
			Help: "Total number of finished polling operations",
		},
		[]string{"result"},
	)

	// RequestLatency tracks single-attempt round trip latency.
	RequestLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pollready_request_latency_seconds",
			Help:    "GET attempt latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"},
	)
)
