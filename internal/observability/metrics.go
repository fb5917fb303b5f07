package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for ingestion
// and queries.
type Metrics struct {
	RecordsIngested *prometheus.CounterVec // labels: source, kind={station,weather,alert,area}
	RecordsSkipped  *prometheus.CounterVec // labels: source, reason
	IngestRunning   prometheus.Gauge

	// Upstream fetch metrics.
	FetchDuration *prometheus.HistogramVec // labels: source
	FetchErrors   *prometheus.CounterVec   // labels: source

	// Store metrics.
	StoreBatchFlushes prometheus.Counter
	StoreBatchSize    prometheus.Histogram

	// Query metrics.
	Queries *prometheus.CounterVec // labels: operation, outcome={ok,error}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RecordsIngested,
		m.RecordsSkipped,
		m.IngestRunning,
		m.FetchDuration,
		m.FetchErrors,
		m.StoreBatchFlushes,
		m.StoreBatchSize,
		m.Queries,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RecordsIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vremenar",
			Name:      "records_ingested_total",
			Help:      "Canonical records written to the store by source and kind.",
		}, []string{"source", "kind"}),
		RecordsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vremenar",
			Name:      "records_skipped_total",
			Help:      "Source records dropped during ingestion by reason.",
		}, []string{"source", "reason"}),
		IngestRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "vremenar",
			Name:      "ingest_running",
			Help:      "1 while an ingestion pass is active, 0 otherwise.",
		}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vremenar",
			Name:      "fetch_duration_seconds",
			Help:      "Upstream provider fetch duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		}, []string{"source"}),
		FetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vremenar",
			Name:      "fetch_errors_total",
			Help:      "Upstream provider fetch failures.",
		}, []string{"source"}),
		StoreBatchFlushes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vremenar",
			Name:      "store_batch_flushes_total",
			Help:      "Pipelined write round trips to the store.",
		}),
		StoreBatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "vremenar",
			Name:      "store_batch_size",
			Help:      "Number of operations per flushed store batch.",
			Buckets:   []float64{1, 5, 10, 25, 50, 75, 100},
		}),
		Queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vremenar",
			Name:      "queries_total",
			Help:      "Query engine operations by name and outcome.",
		}, []string{"operation", "outcome"}),
	}
}
