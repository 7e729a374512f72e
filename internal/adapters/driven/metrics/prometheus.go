// Package metrics implements driven.SyncMetrics with Prometheus collectors.
//
// Every Recorder owns its registry, so a CLI process or a test can create
// one without touching the global default registry. After a run the
// registry can be written in the node-exporter textfile format.
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jasonbrettpreston/buildo-sub002/internal/core/domain"
	"github.com/jasonbrettpreston/buildo-sub002/internal/core/ports/driven"
)

// Namespace and subsystem of all metrics.
const (
	metricsNamespace = "buildo"
	syncSubsystem    = "sync"
)

// Ensure Recorder implements the interface.
var _ driven.SyncMetrics = (*Recorder)(nil)

// Recorder holds the sync pipeline collectors.
type Recorder struct {
	registry *prometheus.Registry

	// RecordsTotal counts processed records.
	// Labels: outcome (new, updated, unchanged, error)
	RecordsTotal *prometheus.CounterVec

	// RunsTotal counts finalized runs.
	// Labels: status (completed, failed)
	RunsTotal *prometheus.CounterVec

	// BatchesTotal counts completed batches.
	BatchesTotal prometheus.Counter

	// BatchDurationSeconds measures per-batch processing time.
	BatchDurationSeconds prometheus.Histogram

	// RunDurationSeconds measures whole-run time.
	// Labels: status
	RunDurationSeconds *prometheus.HistogramVec
}

// NewRecorder creates a Recorder with a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		RecordsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: syncSubsystem,
				Name:      "records_total",
				Help:      "Total number of export records processed by outcome",
			},
			[]string{"outcome"},
		),
		RunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: syncSubsystem,
				Name:      "runs_total",
				Help:      "Total number of finalized sync runs by status",
			},
			[]string{"status"},
		),
		BatchesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: syncSubsystem,
				Name:      "batches_total",
				Help:      "Total number of completed batches",
			},
		),
		BatchDurationSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: syncSubsystem,
				Name:      "batch_duration_seconds",
				Help:      "Time to process one batch of records",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
		),
		RunDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: syncSubsystem,
				Name:      "run_duration_seconds",
				Help:      "Duration of finalized sync runs",
				Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800},
			},
			[]string{"status"},
		),
	}
}

// Registry returns the registry the collectors are registered with.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// RecordOutcome counts one processed record.
func (r *Recorder) RecordOutcome(outcome domain.RecordOutcome) {
	r.RecordsTotal.WithLabelValues(string(outcome)).Inc()
}

// BatchProcessed observes one completed batch.
func (r *Recorder) BatchProcessed(_ int, elapsed time.Duration) {
	r.BatchesTotal.Inc()
	r.BatchDurationSeconds.Observe(elapsed.Seconds())
}

// RunFinished observes a finalized run.
func (r *Recorder) RunFinished(status domain.RunStatus, elapsed time.Duration) {
	r.RunsTotal.WithLabelValues(status.String()).Inc()
	r.RunDurationSeconds.WithLabelValues(status.String()).Observe(elapsed.Seconds())
}

// WriteTextfile writes the registry to path in the Prometheus text format.
// The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
