// Package metrics records dispatcher outcomes to Prometheus.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder receives dispatcher events. The dispatcher only depends on this
// interface so tests and callers without Prometheus can use Noop.
type Recorder interface {
	// RecordRequest records the final outcome of one logical call.
	RecordRequest(verb, outcome string, duration time.Duration)
	// RecordRetry records a retry about to be scheduled.
	RecordRetry(verb string)
	// RecordBreakerState publishes the breaker state (0 closed, 1 half-open, 2 open).
	RecordBreakerState(state int)
}

type Noop struct{}

func (Noop) RecordRequest(string, string, time.Duration) {}
func (Noop) RecordRetry(string)                          {}
func (Noop) RecordBreakerState(int)                      {}

// Prometheus implements Recorder with collectors registered on a caller-supplied registerer.
type Prometheus struct {
	requests     *prometheus.CounterVec
	retries      *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	breakerState prometheus.Gauge
}

// NewPrometheus registers the client collectors on reg. Collectors already
// registered by another Client on reg are reused, so such clients share series.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	return &Prometheus{
		requests: getOrRegister(reg, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tinder_client_requests_total",
				Help: "Total number of API calls by verb and outcome",
			},
			[]string{"verb", "outcome"},
		)),
		retries: getOrRegister(reg, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tinder_client_retries_total",
				Help: "Total number of retried attempts",
			},
			[]string{"verb"},
		)),
		duration: getOrRegister(reg, prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tinder_client_request_duration_seconds",
				Help:    "API call duration in seconds, retries included",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 16, 35},
			},
			[]string{"verb"},
		)),
		breakerState: getOrRegister(reg, prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "tinder_client_circuit_breaker_state",
				Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
			},
		)),
	}
}

// getOrRegister panics on any registration error other than a duplicate of the same collector.
func getOrRegister[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

func (p *Prometheus) RecordRequest(verb, outcome string, duration time.Duration) {
	p.requests.WithLabelValues(verb, outcome).Inc()
	p.duration.WithLabelValues(verb).Observe(duration.Seconds())
}

func (p *Prometheus) RecordRetry(verb string) {
	p.retries.WithLabelValues(verb).Inc()
}

func (p *Prometheus) RecordBreakerState(state int) {
	p.breakerState.Set(float64(state))
}
