package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	ReconcilePasses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nowplaying_reconcile_total",
			Help: "Reconciliation passes by winning source",
		},
		[]string{"source"},
	)
	ReconcileDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nowplaying_reconcile_duration_seconds",
			Help:    "Time taken for one full reconciliation pass",
			Buckets: prometheus.DefBuckets,
		},
	)
	UpstreamFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nowplaying_upstream_failures_total",
			Help: "Failed upstream fetches by collaborator",
		},
		[]string{"upstream"},
	)
	IngestRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nowplaying_ingest_total",
			Help: "Ingest requests by outcome",
		},
		[]string{"status"},
	)
)

// MustRegister installs all collectors on the default registry. Called once
// from main.
func MustRegister() {
	prometheus.MustRegister(ReconcilePasses, ReconcileDuration, UpstreamFailures, IngestRequests)
}
