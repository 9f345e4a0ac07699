package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "wave_etl"

// Metrics holds the Prometheus counters, histograms, and gauges for the
// ingest pipeline and the dashboard.
type Metrics struct {
	// Ingest pipeline metrics.
	FilesMatched        prometheus.Counter
	FilesSkipped        *prometheus.CounterVec // labels: reason={open_failed,decompress_failed,read_failed,empty}
	RecordsParsed       prometheus.Counter
	RecordsDropped      prometheus.Counter
	AggregateRows       prometheus.Gauge
	RunDuration         prometheus.Histogram
	LastSuccessfulRun   prometheus.Gauge
	PipelineRunning     prometheus.Gauge
	SummaryPublishError prometheus.Counter

	// Dashboard metrics.
	DashboardRequests  *prometheus.CounterVec // labels: route, granularity
	ArtifactRows       prometheus.Gauge
	ArtifactLoadErrors prometheus.Counter

	registry *prometheus.Registry
}

// NewMetrics creates all metrics and registers them with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics on a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	m := newMetrics()
	m.registry = prometheus.NewRegistry()
	m.registry.MustRegister(m.collectors()...)
	return m
}

// Gatherer returns the registry the metrics were registered with.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	if m.registry != nil {
		return m.registry
	}
	return prometheus.DefaultGatherer
}

func newMetrics() *Metrics {
	return &Metrics{
		FilesMatched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_matched_total",
			Help:      "Input files whose buoy id is in the station catalog.",
		}),
		FilesSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_skipped_total",
			Help:      "Matched input files that contributed no records, by reason.",
		}, []string{"reason"}),
		RecordsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_parsed_total",
			Help:      "Observation lines parsed from input files.",
		}),
		RecordsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_dropped_total",
			Help:      "Observations dropped for a bad timestamp or missing wave height.",
		}),
		AggregateRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "aggregate_rows",
			Help:      "Region-day rows written by the last run.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete ingest run.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		LastSuccessfulRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_successful_run_timestamp_seconds",
			Help:      "Unix time of the last run that wrote the artifact.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 while an ingest run is in progress.",
		}),
		SummaryPublishError: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summary_publish_errors_total",
			Help:      "Failed attempts to hand the aggregate table to a summary sink.",
		}),
		DashboardRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dashboard_requests_total",
			Help:      "Dashboard requests by route and granularity.",
		}, []string{"route", "granularity"}),
		ArtifactRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "artifact_rows",
			Help:      "Rows in the artifact loaded by the dashboard.",
		}),
		ArtifactLoadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifact_load_errors_total",
			Help:      "Failed attempts to load the summary artifact.",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.FilesMatched,
		m.FilesSkipped,
		m.RecordsParsed,
		m.RecordsDropped,
		m.AggregateRows,
		m.RunDuration,
		m.LastSuccessfulRun,
		m.PipelineRunning,
		m.SummaryPublishError,
		m.DashboardRequests,
		m.ArtifactRows,
		m.ArtifactLoadErrors,
	}
}
