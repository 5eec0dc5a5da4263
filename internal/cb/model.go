package cb

import "time"

type CircuitBreakerParameters struct {
	Name string
	// HalfOpenMaxRequests is the number of calls let through while half-open.
	HalfOpenMaxRequests uint32
	// MinRequests is the number of calls in the window before the failure ratio is evaluated.
	MinRequests uint32
	// FailureRatio trips the breaker when failures/requests in the window reach it.
	FailureRatio float64
	// Interval is the evaluation window of the closed state; counts reset when it elapses.
	Interval time.Duration
	// OpenTimeout is how long the breaker stays open before probing.
	OpenTimeout   time.Duration
	OnStateChange func(from, to State)
}
