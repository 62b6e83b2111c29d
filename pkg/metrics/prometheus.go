package metrics

import (
	"FinLens/internal/domain/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	fetches      *prometheus.CounterVec
	availability *prometheus.CounterVec
	latency      *prometheus.HistogramVec
}

// New registers the recorder's collectors on the default registry.
func New() *Recorder {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers on reg; tests pass a fresh prometheus.NewRegistry().
func NewWithRegisterer(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		fetches: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finlens_gateway_fetches_total",
				Help: "Market data fetches by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		availability: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finlens_metric_results_total",
				Help: "Computed metrics by name and availability status",
			},
			[]string{"metric", "status"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "finlens_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordFetch counts one gateway fetch (kind: chart|summary; outcome: ok|cache_hit|not_found|error).
func (r *Recorder) RecordFetch(kind, outcome string) {
	r.fetches.WithLabelValues(kind, outcome).Inc()
}

func (r *Recorder) RecordMetric(name string, status models.MetricStatus) {
	r.availability.WithLabelValues(name, string(status)).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
