// Package metrics exposes Prometheus instrumentation for resilient calls.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder holds the netres collectors. A nil *Recorder is valid and records nothing.
type Recorder struct {
	// AttemptsTotal counts attempts per service, outcome and error category
	AttemptsTotal *prometheus.CounterVec

	// AttemptDuration tracks attempt latency per service
	AttemptDuration *prometheus.HistogramVec

	// ServiceHealthy is 1 when the last attempt against a service succeeded
	ServiceHealthy *prometheus.GaugeVec
}

// NewRecorder registers the netres collectors with reg.
// Use prometheus.NewRegistry() in tests to avoid duplicate registration.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)

	return &Recorder{
		AttemptsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "netres_attempts_total",
				Help: "Total number of resilient call attempts",
			},
			[]string{"service", "outcome", "category"},
		),
		AttemptDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "netres_attempt_duration_seconds",
				Help:    "Resilient call attempt latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service"},
		),
		ServiceHealthy: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "netres_service_healthy",
				Help: "Last-known health of a service (1 healthy, 0 unhealthy)",
			},
			[]string{"service"},
		),
	}
}

// ObserveAttempt records one attempt. category is ignored for successful attempts.
func (r *Recorder) ObserveAttempt(service string, succeeded bool, category string, d time.Duration) {
	if r == nil {
		return
	}

	outcome := "success"
	if !succeeded {
		outcome = "failure"
	} else {
		category = ""
	}

	r.AttemptsTotal.WithLabelValues(service, outcome, category).Inc()
	r.AttemptDuration.WithLabelValues(service).Observe(d.Seconds())
}

// SetServiceHealth mirrors a registry update. It matches health.Observer.
func (r *Recorder) SetServiceHealth(service string, healthy bool) {
	if r == nil {
		return
	}

	value := 0.0
	if healthy {
		value = 1.0
	}
	r.ServiceHealthy.WithLabelValues(service).Set(value)
}
