// Package metrics defines the Prometheus instrumentation of the engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the engine collectors. A nil *Metrics is valid and records
// nothing, so instrumentation stays optional.
type Metrics struct {
	Requests    *prometheus.CounterVec
	FatalErrors prometheus.Counter
	Splits      prometheus.Counter
	Duration    prometheus.Histogram
}

// New creates and registers the engine collectors.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "menuflow",
			Name:      "requests_total",
			Help:      "Requests processed, by request type and outcome.",
		}, []string{"request_type", "outcome"}),
		FatalErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "menuflow",
			Name:      "fatal_errors_total",
			Help:      "Requests aborted by a fatal framework error.",
		}),
		Splits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "menuflow",
			Name:      "screen_splits_total",
			Help:      "Screens that overflowed the channel budget and were paginated.",
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "menuflow",
			Name:      "request_duration_seconds",
			Help:      "Wall time spent processing one request.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.Requests, m.FatalErrors, m.Splits, m.Duration)
	return m
}

// ObserveRequest records one processed request.
func (m *Metrics) ObserveRequest(requestType, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(requestType, outcome).Inc()
	m.Duration.Observe(seconds)
}

// ObserveFatal records a fatal framework error.
func (m *Metrics) ObserveFatal() {
	if m == nil {
		return
	}
	m.FatalErrors.Inc()
}

// ObserveSplit records a paginated screen.
func (m *Metrics) ObserveSplit() {
	if m == nil {
		return
	}
	m.Splits.Inc()
}
