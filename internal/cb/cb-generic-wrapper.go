package cb

import (
	"context"
	"errors"

	local_errors "github.com/RassulYunussov/tinderclient/internal/errors"
	"github.com/sony/gobreaker/v2"
)

type circuitBreaker[T any, V any] struct {
	*gobreaker.CircuitBreaker[*V]
}

func (cb *circuitBreaker[T, V]) execute(ctx context.Context, f func(ctx context.Context, request *T) (*V, error), request *T) (*V, error) {
	res, err := cb.CircuitBreaker.Execute(func() (*V, error) {
		return f(ctx, request)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, local_errors.CircuitOpen(err)
	}
	return res, err
}

func newCircuitBreaker[T any, V any](p *CircuitBreakerParameters) *circuitBreaker[T, V] {
	return &circuitBreaker[T, V]{
		CircuitBreaker: gobreaker.NewCircuitBreaker[*V](gobreaker.Settings{
			Name:        p.Name,
			MaxRequests: p.HalfOpenMaxRequests,
			Interval:    p.Interval,
			Timeout:     p.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return ShouldTrip(counts.Requests, counts.TotalFailures, p.MinRequests, p.FailureRatio)
			},
			OnStateChange: func(_ string, from gobreaker.State, to gobreaker.State) {
				if p.OnStateChange != nil {
					p.OnStateChange(fromGobreaker(from), fromGobreaker(to))
				}
			},
			IsSuccessful: isSuccessful,
		}),
	}
}

// isSuccessful keeps outcomes that say nothing about upstream health out of the failure count.
// A 401 is a complete reply from upstream, so a 401 in half-open closes the breaker
// like any other success.
func isSuccessful(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, local_errors.ErrNotAuthorized) {
		return true
	}
	return errors.Is(err, context.Canceled)
}
