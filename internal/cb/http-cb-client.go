package cb

import (
	"context"

	"github.com/RassulYunussov/tinderclient/common"
)

// CircuitBreakerTransport runs every attempt through one breaker shared by all calls.
type CircuitBreakerTransport struct {
	client  common.Transport
	breaker *circuitBreaker[common.Request, common.Response]
}

func CreateCircuitBreakerTransport(client common.Transport, circuitBreakerParameters *CircuitBreakerParameters) *CircuitBreakerTransport {
	return &CircuitBreakerTransport{
		client:  client,
		breaker: newCircuitBreaker[common.Request, common.Response](circuitBreakerParameters),
	}
}

func (c *CircuitBreakerTransport) Do(ctx context.Context, r *common.Request) (*common.Response, error) {
	return c.breaker.execute(ctx, c.client.Do, r)
}

// State is a snapshot; it may change as soon as it is read.
func (c *CircuitBreakerTransport) State() State {
	return fromGobreaker(c.breaker.State())
}
