package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// cleaning pipeline.
type Metrics struct {
	RecordsProcessed prometheus.Counter
	OutliersDetected prometheus.Counter
	MissingDetected  prometheus.Counter
	ValuesImputed    prometheus.Counter

	Runs          *prometheus.CounterVec   // labels: outcome={success,invalid_input,insufficient_data,canceled}
	StageDuration *prometheus.HistogramVec // labels: stage={detect,impute,normalize,report}
	AnomalyRate   prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RecordsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "temp_qc",
			Name:      "records_processed_total",
			Help:      "Total records passed through the pipeline.",
		}),
		OutliersDetected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "temp_qc",
			Name:      "outliers_detected_total",
			Help:      "Total values flagged outside the sigma envelope.",
		}),
		MissingDetected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "temp_qc",
			Name:      "missing_detected_total",
			Help:      "Total records with no usable value.",
		}),
		ValuesImputed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "temp_qc",
			Name:      "values_imputed_total",
			Help:      "Total values filled by interpolation.",
		}),
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "temp_qc",
			Name:      "runs_total",
			Help:      "Pipeline runs by outcome.",
		}, []string{"outcome"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "temp_qc",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"stage"}),
		AnomalyRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "temp_qc",
			Name:      "anomaly_rate",
			Help:      "Share of flagged records in the most recent run.",
		}),
	}

	prometheus.MustRegister(
		m.RecordsProcessed,
		m.OutliersDetected,
		m.MissingDetected,
		m.ValuesImputed,
		m.Runs,
		m.StageDuration,
		m.AnomalyRate,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RecordsProcessed: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "temp_qc", Name: "records_processed_total"}),
		OutliersDetected: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "temp_qc", Name: "outliers_detected_total"}),
		MissingDetected:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "temp_qc", Name: "missing_detected_total"}),
		ValuesImputed:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "temp_qc", Name: "values_imputed_total"}),
		Runs:             prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "temp_qc", Name: "runs_total"}, []string{"outcome"}),
		StageDuration:    prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "temp_qc", Name: "stage_duration_seconds"}, []string{"stage"}),
		AnomalyRate:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "temp_qc", Name: "anomaly_rate"}),
	}
}
