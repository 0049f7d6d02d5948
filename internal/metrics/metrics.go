// Package metrics exposes ingestion progress as prometheus metrics.
package metrics

import (
	"github.com/JonMunkholm/hygload/internal/core"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "hygload"

	MetricLinesTotal       = "lines_total"
	MetricLinesProcessed   = "lines_processed"
	MetricRecordsPersisted = "records_persisted"
	MetricRecordsSkipped   = "records_skipped"
	MetricRecordsRejected  = "records_rejected_total"
	MetricRunComplete      = "run_complete"
)

// Ingest holds the metrics of one ingestion run.
type Ingest struct {
	registry *prometheus.Registry

	linesTotal     prometheus.Gauge
	linesProcessed prometheus.Gauge
	persisted      prometheus.Gauge
	skipped        prometheus.Gauge
	complete       prometheus.Gauge
	rejected       *prometheus.CounterVec
}

// NewIngest creates the ingestion metrics on a private registry.
func NewIngest() *Ingest {
	m := &Ingest{
		registry: prometheus.NewRegistry(),
		linesTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      MetricLinesTotal,
			Help:      "Lines in the catalog source, header included.",
		}),
		linesProcessed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      MetricLinesProcessed,
			Help:      "Lines consumed so far, header included.",
		}),
		persisted: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      MetricRecordsPersisted,
			Help:      "Stars stored so far.",
		}),
		skipped: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      MetricRecordsSkipped,
			Help:      "Lines dropped for a wrong field count.",
		}),
		complete: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      MetricRunComplete,
			Help:      "1 once the run has finished, 0 before.",
		}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      MetricRecordsRejected,
			Help:      "Rejected records by error code.",
		}, []string{"code"}),
	}

	m.registry.MustRegister(
		m.linesTotal,
		m.linesProcessed,
		m.persisted,
		m.skipped,
		m.complete,
		m.rejected,
	)
	return m
}

// Registry returns the registry holding the ingestion metrics.
func (m *Ingest) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveProgress updates the gauges from a progress snapshot.
func (m *Ingest) ObserveProgress(p core.Progress) {
	m.linesTotal.Set(float64(p.TotalLines))
	m.linesProcessed.Set(float64(p.CurrentLine))
	m.persisted.Set(float64(p.Persisted))
	m.skipped.Set(float64(p.Skipped))
	if p.Phase == core.PhaseComplete || p.Phase == core.PhaseFailed {
		m.complete.Set(1)
	}
}

// ObserveReject counts a rejected record under its error code.
func (m *Ingest) ObserveReject(row core.FailedRow) {
	m.rejected.WithLabelValues(row.Code).Inc()
}
