// Package metrics holds the Prometheus instruments for ranking runs. A nil
// *Metrics is valid and records nothing.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
)

const (
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
)

type Metrics struct {
	Registry     *prometheus.Registry
	runs         *prometheus.CounterVec
	failures     *prometheus.CounterVec
	duration     prometheus.Histogram
	alternatives prometheus.Counter
}

// New registers the run instruments on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "topsis_runs_total",
			Help: "Ranking runs by outcome.",
		}, []string{"outcome"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "topsis_validation_failures_total",
			Help: "Rejected inputs by validation kind.",
		}, []string{"kind"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "topsis_run_duration_seconds",
			Help:    "Time spent validating and ranking one table.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		alternatives: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "topsis_alternatives_ranked_total",
			Help: "Rows ranked across all completed runs.",
		}),
	}
	m.Registry.MustRegister(m.runs, m.failures, m.duration, m.alternatives)
	return m
}

// ObserveCompleted records a successful run over n alternatives.
func (m *Metrics) ObserveCompleted(d time.Duration, n int) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(OutcomeCompleted).Inc()
	m.duration.Observe(d.Seconds())
	m.alternatives.Add(float64(n))
}

// ObserveFailed records a rejected run. kind is the validation kind, or
// "internal" for anything else.
func (m *Metrics) ObserveFailed(d time.Duration, kind string) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(OutcomeFailed).Inc()
	m.failures.WithLabelValues(kind).Inc()
	m.duration.Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// Push sends the registry to a Pushgateway under the "topsis" job.
func (m *Metrics) Push(ctx context.Context, url string) error {
	if m == nil {
		return nil
	}
	return push.New(url, "topsis").Gatherer(m.Registry).PushContext(ctx)
}
