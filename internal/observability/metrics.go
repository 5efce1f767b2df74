package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for a pipeline run.
type Metrics struct {
	LegendFilesRead prometheus.Counter
	StationsParsed  prometheus.Counter
	DataFilesRead   prometheus.Counter
	PipelineRunning prometheus.Gauge

	// Observation row metrics.
	ObservationsKept   prometheus.Counter
	ObservationsDrop   prometheus.Counter
	MeasurementMissing prometheus.Counter

	// Stage timing.
	StageDuration *prometheus.HistogramVec // labels: stage={stations,precipitation,render}
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.LegendFilesRead,
		m.StationsParsed,
		m.DataFilesRead,
		m.PipelineRunning,
		m.ObservationsKept,
		m.ObservationsDrop,
		m.MeasurementMissing,
		m.StageDuration,
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
		LegendFilesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "idaweb_etl",
			Name:      "legend_files_read_total",
			Help:      "Total legend files parsed.",
		}),
		StationsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "idaweb_etl",
			Name:      "stations_parsed_total",
			Help:      "Total station lines parsed from legend files.",
		}),
		DataFilesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "idaweb_etl",
			Name:      "data_files_read_total",
			Help:      "Total precipitation data files parsed.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "idaweb_etl",
			Name:      "pipeline_running",
			Help:      "1 while a pipeline run is in progress.",
		}),
		ObservationsKept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "idaweb_etl",
			Name:      "observations_kept_total",
			Help:      "Data rows kept as daily observations.",
		}),
		ObservationsDrop: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "idaweb_etl",
			Name:      "observations_dropped_total",
			Help:      "Data rows dropped because the time field is not YYYYMMDD.",
		}),
		MeasurementMissing: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "idaweb_etl",
			Name:      "measurement_missing_total",
			Help:      "Measurement cells coerced to missing values.",
		}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "idaweb_etl",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"stage"}),
	}
}
