package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks scheduled digest runs at the worker level. Pipeline-level
// metrics (items, summaries, emits) live in observability/metrics.
type Metrics struct {
	// RunsTotal counts scheduled runs by status (success/failure).
	RunsTotal *prometheus.CounterVec

	// RunDurationSeconds measures whole-run duration including setup.
	RunDurationSeconds prometheus.Histogram

	// FeedsConfigured reports how many feed sources the worker polls.
	FeedsConfigured prometheus.Gauge

	// LastSuccessTimestamp is the Unix time of the last successful run.
	LastSuccessTimestamp prometheus.Gauge
}

// NewMetrics creates and registers the worker metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		RunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_digest_runs_total",
			Help: "Total number of scheduled digest runs by status (success/failure)",
		}, []string{"status"}),

		RunDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_digest_run_duration_seconds",
			Help:    "Duration of scheduled digest runs in seconds",
			Buckets: []float64{1, 5, 30, 60, 120, 300, 480, 600},
		}),

		FeedsConfigured: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "worker_feeds_configured",
			Help: "Number of feed sources the worker is configured to poll",
		}),

		LastSuccessTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "worker_digest_last_success_timestamp",
			Help: "Unix timestamp of the last successful digest run",
		}),
	}
}

// RecordRun counts a finished run by status.
func (m *Metrics) RecordRun(status string) {
	m.RunsTotal.WithLabelValues(status).Inc()
}

// RecordRunDuration observes a whole-run duration in seconds.
func (m *Metrics) RecordRunDuration(seconds float64) {
	m.RunDurationSeconds.Observe(seconds)
}

// SetFeedsConfigured reports the configured feed count.
func (m *Metrics) SetFeedsConfigured(count int) {
	m.FeedsConfigured.Set(float64(count))
}

// RecordLastSuccess stamps the current time as the last successful run.
func (m *Metrics) RecordLastSuccess() {
	m.LastSuccessTimestamp.SetToCurrentTime()
}
