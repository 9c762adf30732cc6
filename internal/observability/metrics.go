package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Feed labels for fetch metrics.
const (
	FeedConfig = "config"
	FeedStatus = "status"
)

// Metrics holds the Prometheus counters, histograms, and gauges for snapshot runs.
type Metrics struct {
	RunsTotal        *prometheus.CounterVec   // labels: outcome={success,error}
	FetchDuration    *prometheus.HistogramVec // labels: feed={config,status}
	FetchErrors      *prometheus.CounterVec   // labels: feed={config,status}
	SignalsExtracted prometheus.Gauge
	Crafts           prometheus.Gauge
	LastSuccess      prometheus.Gauge

	// Serve mode.
	SnapshotCache    *prometheus.CounterVec // labels: result={hit,miss}
	RefreshThrottled prometheus.Counter

	SnapshotsPublished prometheus.Counter
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RunsTotal,
		m.FetchDuration,
		m.FetchErrors,
		m.SignalsExtracted,
		m.Crafts,
		m.LastSuccess,
		m.SnapshotCache,
		m.RefreshThrottled,
		m.SnapshotsPublished,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so tests can
// build as many as they like without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dsn",
			Name:      "runs_total",
			Help:      "Snapshot runs by outcome.",
		}, []string{"outcome"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dsn",
			Name:      "fetch_duration_seconds",
			Help:      "Upstream feed fetch duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"feed"}),
		FetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dsn",
			Name:      "fetch_errors_total",
			Help:      "Failed upstream feed fetches.",
		}, []string{"feed"}),
		SignalsExtracted: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dsn",
			Name:      "signals_extracted",
			Help:      "Active signals in the latest snapshot.",
		}),
		Crafts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dsn",
			Name:      "crafts",
			Help:      "Spacecraft in contact in the latest snapshot.",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dsn",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the latest successful snapshot.",
		}),
		SnapshotCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dsn",
			Name:      "snapshot_cache_total",
			Help:      "Snapshot cache lookups by result.",
		}, []string{"result"}),
		RefreshThrottled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dsn",
			Name:      "refresh_throttled_total",
			Help:      "Snapshot refreshes refused by the rate limiter.",
		}),
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dsn",
			Name:      "snapshots_published_total",
			Help:      "Snapshots written to Kafka.",
		}),
	}
}
