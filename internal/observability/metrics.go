package observability

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "weather_etl"

// Metrics holds the Prometheus counters, histograms, and gauges for a batch
// run. A run is short-lived, so metrics are written to a node-exporter
// textfile at the end instead of being scraped.
type Metrics struct {
	registry *prometheus.Registry

	RowsExtracted      prometheus.Counter
	RowsDropped        prometheus.Counter
	TemperaturesFilled prometheus.Counter
	MissingValues      *prometheus.GaugeVec // labels: column, stage={raw,cleaned}
	PipelineRunning    prometheus.Gauge

	StageDuration *prometheus.HistogramVec // labels: stage
	FilesWritten  *prometheus.CounterVec   // labels: kind={csv,chart,report}
	BytesWritten  prometheus.Counter

	SinkRows   *prometheus.CounterVec // labels: sink
	SinkErrors *prometheus.CounterVec // labels: sink

	LastRunSuccess   prometheus.Gauge
	LastRunTimestamp prometheus.Gauge
}

// NewMetrics creates all run metrics on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RowsExtracted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_extracted_total",
			Help:      "Observations generated or read from the input CSV.",
		}),
		RowsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_dropped_total",
			Help:      "Rows removed by cleaning because a value stayed missing.",
		}),
		TemperaturesFilled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "temperatures_filled_total",
			Help:      "Missing temperatures filled from the rolling mean.",
		}),
		MissingValues: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "missing_values",
			Help:      "Missing values per column before and after cleaning.",
		}, []string{"column", "stage"}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 while a run is in progress.",
		}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}, []string{"stage"}),
		FilesWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_written_total",
			Help:      "Output files written by kind.",
		}, []string{"kind"}),
		BytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_written_total",
			Help:      "Total bytes of output files written.",
		}),
		SinkRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_rows_total",
			Help:      "Cleaned rows delivered to each sink.",
		}, []string{"sink"}),
		SinkErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_errors_total",
			Help:      "Failed sink attempts, including retried ones.",
		}, []string{"sink"}),
		LastRunSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_success",
			Help:      "1 if the last run completed, 0 if it failed.",
		}),
		LastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished.",
		}),
	}

	m.registry.MustRegister(
		m.RowsExtracted,
		m.RowsDropped,
		m.TemperaturesFilled,
		m.MissingValues,
		m.PipelineRunning,
		m.StageDuration,
		m.FilesWritten,
		m.BytesWritten,
		m.SinkRows,
		m.SinkErrors,
		m.LastRunSuccess,
		m.LastRunTimestamp,
	)

	return m
}

// NewMetricsForTesting is NewMetrics under the name tests have always used.
func NewMetricsForTesting() *Metrics {
	return NewMetrics()
}

// Registry exposes the private registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes every metric in text exposition format to path,
// atomically replacing any previous file.
func (m *Metrics) WriteTextfile(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create metrics dir: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
