package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// scrape pipeline. Scrape sources are labeled "grid", "outages", "status".
type Metrics struct {
	ScrapeRuns     *prometheus.CounterVec   // labels: source, outcome={success,error}
	ScrapeDuration *prometheus.HistogramVec // labels: source
	RowsExtracted  *prometheus.CounterVec   // labels: source
	RunnerActive   prometheus.Gauge

	StoreInserts prometheus.Counter
	StoreUpdates prometheus.Counter
	StoreErrors  *prometheus.CounterVec // labels: op={insert,update,select}

	// Status snapshots skipped because the recency marker was not newer.
	SnapshotsSkippedStale prometheus.Counter

	EventsPublished prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ScrapeRuns,
		m.ScrapeDuration,
		m.RowsExtracted,
		m.RunnerActive,
		m.StoreInserts,
		m.StoreUpdates,
		m.StoreErrors,
		m.SnapshotsSkippedStale,
		m.EventsPublished,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid "already
// registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ScrapeRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "luma_etl",
			Name:      "scrape_runs_total",
			Help:      "Completed scrape passes by source and outcome.",
		}, []string{"source", "outcome"}),
		ScrapeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "luma_etl",
			Name:      "scrape_duration_seconds",
			Help:      "Duration of a complete fetch-extract-store pass.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 20, 40, 60},
		}, []string{"source"}),
		RowsExtracted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "luma_etl",
			Name:      "rows_extracted_total",
			Help:      "Records extracted from source documents.",
		}, []string{"source"}),
		RunnerActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "luma_etl",
			Name:      "runner_active",
			Help:      "1 while the interval runner is live, 0 when shut down.",
		}),
		StoreInserts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "luma_etl",
			Name:      "store_inserts_total",
			Help:      "Rows inserted into the destination store.",
		}),
		StoreUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "luma_etl",
			Name:      "store_updates_total",
			Help:      "Rows updated in place in the destination store.",
		}),
		StoreErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "luma_etl",
			Name:      "store_errors_total",
			Help:      "Store operations rejected by the destination.",
		}, []string{"op"}),
		SnapshotsSkippedStale: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "luma_etl",
			Name:      "snapshots_skipped_stale_total",
			Help:      "Status snapshots not stored because the source recency marker was not newer.",
		}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "luma_etl",
			Name:      "events_published_total",
			Help:      "Outage events published to the optional Kafka sink.",
		}),
	}
}
