package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kirillkom/deckdoc/internal/core/ports"
)

type JobMetrics struct {
	jobsTotal    *prometheus.CounterVec
	jobDuration  *prometheus.HistogramVec
	jobsInFlight prometheus.Gauge
}

func NewJobMetrics(service string, registry *prometheus.Registry) *JobMetrics {
	jobsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "deckdoc",
			Subsystem: "jobs",
			Name:      "processed_total",
			Help:      "Total processed extraction jobs by terminal status.",
		},
		[]string{"service", "status"},
	)
	jobDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "deckdoc",
			Subsystem: "jobs",
			Name:      "process_duration_seconds",
			Help:      "Extraction job duration in seconds by terminal status.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		},
		[]string{"service", "status"},
	)
	jobsInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "deckdoc",
			Subsystem: "jobs",
			Name:      "in_flight",
			Help:      "Number of jobs currently running.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)

	registry.MustRegister(jobsTotal, jobDuration, jobsInFlight)

	return &JobMetrics{
		jobsTotal:    jobsTotal,
		jobDuration:  jobDuration,
		jobsInFlight: jobsInFlight,
	}
}

// InstrumentRunner decorates a runner with in-flight, outcome, and duration
// observations. The terminal status is read back from the store because the
// runner itself reports nothing.
func (m *JobMetrics) InstrumentRunner(service string, store ports.JobStore, next ports.JobRunner) ports.JobRunner {
	return &instrumentedRunner{metrics: m, service: service, store: store, next: next}
}

type instrumentedRunner struct {
	metrics *JobMetrics
	service string
	store   ports.JobStore
	next    ports.JobRunner
}

func (r *instrumentedRunner) Run(ctx context.Context, jobID, sourcePath string) {
	start := time.Now()
	r.metrics.jobsInFlight.Inc()
	defer r.metrics.jobsInFlight.Dec()

	r.next.Run(ctx, jobID, sourcePath)

	status := "unknown"
	if job, ok := r.store.Get(jobID); ok {
		status = string(job.Status)
	}
	r.metrics.jobsTotal.WithLabelValues(r.service, status).Inc()
	r.metrics.jobDuration.WithLabelValues(r.service, status).Observe(time.Since(start).Seconds())
}

var _ ports.JobRunner = (*instrumentedRunner)(nil)
