package resilient

import (
	"context"
	"errors"
	"time"

	"github.com/RassulYunussov/tinderclient/common"
	local_errors "github.com/RassulYunussov/tinderclient/internal/errors"
)

type resilientTransport struct {
	client         common.Transport
	maxAttempts    int
	interval       time.Duration
	attemptTimeout time.Duration
	shouldRetry    func(error) bool
	onRetry        func(ctx context.Context, r *common.Request, attempt int, err error)
}

func CreateResilientTransport(client common.Transport, retryParameters *RetryParameters) common.Transport {
	c := resilientTransport{client: client, maxAttempts: 1, shouldRetry: DefaultRetryPredicate} // default to not retry
	if retryParameters != nil {
		if retryParameters.MaxAttempts > 1 {
			c.maxAttempts = int(retryParameters.MaxAttempts)
		}
		c.interval = retryParameters.Interval
		c.attemptTimeout = retryParameters.AttemptTimeout
		if retryParameters.ShouldRetry != nil {
			c.shouldRetry = retryParameters.ShouldRetry
		}
		c.onRetry = retryParameters.OnRetry
	}
	return &c
}

// DefaultRetryPredicate retries every failure except those that cannot change by waiting:
// an unauthorized response, an open circuit and rejected arguments.
func DefaultRetryPredicate(err error) bool {
	switch local_errors.KindOf(err) {
	case local_errors.KindNotAuthorized, local_errors.KindCircuitOpen, local_errors.KindInvalidArguments:
		return false
	}
	return !errors.Is(err, context.Canceled)
}

func (c *resilientTransport) Do(ctx context.Context, r *common.Request) (*common.Response, error) {
	return c.doWithRetry(ctx, r)
}

func (c *resilientTransport) do(ctx context.Context, r *common.Request) (*common.Response, error) {
	if c.attemptTimeout <= 0 {
		return c.client.Do(ctx, r)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
	defer cancel()
	return c.client.Do(attemptCtx, r)
}

func (c *resilientTransport) backoff(ctx context.Context) error {
	if c.interval <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(c.interval)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *resilientTransport) doWithRetry(ctx context.Context, r *common.Request) (*common.Response, error) {
	var err error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		var resp *common.Response
		resp, err = c.do(ctx, r)
		if err == nil {
			return resp, nil
		}
		// the caller's own context is done: no attempt can succeed
		if ctx.Err() != nil {
			return nil, err
		}
		if attempt == c.maxAttempts || !c.shouldRetry(err) {
			break
		}
		if c.onRetry != nil {
			c.onRetry(ctx, r, attempt, err)
		}
		if c.backoff(ctx) != nil {
			break
		}
	}
	return nil, err
}
