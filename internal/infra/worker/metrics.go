package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks the scheduled analysis runs. Registration happens at
// construction via promauto, so one instance per process.
type Metrics struct {
	// JobRunsTotal counts runs by status (success, failure).
	JobRunsTotal *prometheus.CounterVec

	// JobDurationSeconds measures full run duration, headlines fetch plus
	// analysis. Buckets cover seconds to half an hour.
	JobDurationSeconds prometheus.Histogram

	// ArticlesFetchedTotal counts headline articles pulled across all runs.
	ArticlesFetchedTotal prometheus.Counter

	// ArticlesStoredTotal counts analyses actually stored. Skipped duplicates
	// and failed LLM calls do not count.
	ArticlesStoredTotal prometheus.Counter

	// LastSuccessTimestamp is the Unix time of the last fully successful run.
	LastSuccessTimestamp prometheus.Gauge
}

// NewMetrics creates and registers the worker metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		JobRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_job_runs_total",
			Help: "Total number of scheduled analysis runs by status",
		}, []string{"status"}),

		JobDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_job_duration_seconds",
			Help:    "Duration of scheduled analysis runs in seconds",
			Buckets: []float64{1, 5, 30, 60, 300, 900, 1800},
		}),

		ArticlesFetchedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "worker_articles_fetched_total",
			Help: "Total headline articles fetched across all runs",
		}),

		ArticlesStoredTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "worker_articles_stored_total",
			Help: "Total analyzed articles stored across all runs",
		}),

		LastSuccessTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "worker_last_success_timestamp",
			Help: "Unix timestamp of the last successful analysis run",
		}),
	}
}

// RecordRun increments the run counter for the given status.
func (m *Metrics) RecordRun(status string) {
	m.JobRunsTotal.WithLabelValues(status).Inc()
}

// RecordDuration observes one run's duration in seconds.
func (m *Metrics) RecordDuration(seconds float64) {
	m.JobDurationSeconds.Observe(seconds)
}

// RecordFetched adds to the fetched-articles counter.
func (m *Metrics) RecordFetched(count int) {
	m.ArticlesFetchedTotal.Add(float64(count))
}

// RecordStored adds to the stored-analyses counter.
func (m *Metrics) RecordStored(count int) {
	m.ArticlesStoredTotal.Add(float64(count))
}

// RecordLastSuccess stamps the last-success gauge with the current time.
func (m *Metrics) RecordLastSuccess() {
	m.LastSuccessTimestamp.SetToCurrentTime()
}
