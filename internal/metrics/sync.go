package metrics

import "github.com/prometheus/client_golang/prometheus"

// Sync pipeline Prometheus metrics.
var (
	SyncRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "sync_runs_total",
			Help:      "Total number of catalog sync runs",
		},
		[]string{"status"}, // "success" / "error"
	)

	SyncRunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "storefront",
			Name:      "sync_run_duration_seconds",
			Help:      "Full catalog sync run duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
	)

	SyncRecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "sync_records_total",
			Help:      "Total search records written per locale",
		},
		[]string{"locale"},
	)

	IndexWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "index_writes_total",
			Help:      "Total search index write operations",
		},
		[]string{"index", "status"},
	)

	WebhookEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "webhook_events_total",
			Help:      "Total content-change webhook deliveries processed",
		},
		[]string{"content_type", "result"},
	)

	CacheInvalidationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "cache_invalidations_total",
			Help:      "Total site-wide cache invalidations",
		},
		[]string{"status"},
	)
)

var syncMetricsRegistered bool

// RegisterSyncMetrics registers Prometheus sync metrics. Must be called once from main.
func RegisterSyncMetrics() {
	if syncMetricsRegistered {
		return
	}
	prometheus.MustRegister(SyncRunsTotal)
	prometheus.MustRegister(SyncRunDuration)
	prometheus.MustRegister(SyncRecordsTotal)
	prometheus.MustRegister(IndexWritesTotal)
	prometheus.MustRegister(WebhookEventsTotal)
	prometheus.MustRegister(CacheInvalidationsTotal)
	syncMetricsRegistered = true
}
