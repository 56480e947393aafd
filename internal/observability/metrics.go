package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// dataset loader and the query API.
type Metrics struct {
	DatasetFetches      *prometheus.CounterVec // labels: source={network,cache}, outcome={success,error}
	DatasetRows         prometheus.Gauge
	DatasetLoaded       prometheus.Gauge
	DatasetLoadDuration prometheus.Histogram

	QueryRequests *prometheus.CounterVec   // labels: endpoint
	QueryDuration *prometheus.HistogramVec // labels: endpoint
	ExportRows    prometheus.Histogram

	NotifyPublished prometheus.Counter
	NotifyErrors    prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.DatasetFetches,
		m.DatasetRows,
		m.DatasetLoaded,
		m.DatasetLoadDuration,
		m.QueryRequests,
		m.QueryDuration,
		m.ExportRows,
		m.NotifyPublished,
		m.NotifyErrors,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		DatasetFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nri_explorer",
			Name:      "dataset_fetch_total",
			Help:      "Dataset load attempts by source and outcome.",
		}, []string{"source", "outcome"}),
		DatasetRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "nri_explorer",
			Name:      "dataset_rows",
			Help:      "County rows in the currently loaded dataset.",
		}),
		DatasetLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "nri_explorer",
			Name:      "dataset_loaded",
			Help:      "1 when a dataset snapshot is loaded, 0 otherwise.",
		}),
		DatasetLoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "nri_explorer",
			Name:      "dataset_load_duration_seconds",
			Help:      "Duration of a complete fetch-parse-store cycle.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		QueryRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nri_explorer",
			Name:      "query_requests_total",
			Help:      "API requests by endpoint.",
		}, []string{"endpoint"}),
		QueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "nri_explorer",
			Name:      "query_duration_seconds",
			Help:      "API request duration in seconds by endpoint.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}, []string{"endpoint"}),
		ExportRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "nri_explorer",
			Name:      "export_rows",
			Help:      "Rows per CSV export.",
			Buckets:   []float64{1, 10, 50, 100, 500, 1000, 3000, 5000},
		}),
		NotifyPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nri_explorer",
			Name:      "notify_published_total",
			Help:      "Dataset refresh notifications published to Kafka.",
		}),
		NotifyErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nri_explorer",
			Name:      "notify_errors_total",
			Help:      "Failed attempts to publish a refresh notification.",
		}),
	}
}
