// Package tinderclient is an authenticated client for the Tinder API.
//
// Every call goes through one policy: a fixed-interval retry with a
// per-attempt timeout around a circuit breaker shared by the whole Client.
// Responses are classified into the error kinds of this package; network
// failures are returned as-is.
package tinderclient

import (
	"context"
	"log/slog"

	"github.com/RassulYunussov/tinderclient/common"
	"github.com/RassulYunussov/tinderclient/internal/cb"
	"github.com/RassulYunussov/tinderclient/internal/dispatch"
	local_errors "github.com/RassulYunussov/tinderclient/internal/errors"
	"github.com/RassulYunussov/tinderclient/internal/metrics"
	"github.com/RassulYunussov/tinderclient/internal/resilient"
	"github.com/RassulYunussov/tinderclient/internal/transport"
)

const authHeader = "X-Auth-Token"

// CircuitBreakerState is a snapshot of the Client's breaker.
type CircuitBreakerState = cb.State

const (
	CircuitClosed   = cb.StateClosed
	CircuitHalfOpen = cb.StateHalfOpen
	CircuitOpen     = cb.StateOpen
)

type Client struct {
	session    *Session
	dispatcher *dispatch.Dispatcher
	locale     string
}

// New returns a Client configured by DefaultConfig overlaid with opts.
// The Client is safe for concurrent use.
func New(opts ...Option) *Client {
	o := &clientOptions{config: DefaultConfig()}
	for _, opt := range opts {
		opt(o)
	}
	if o.session == nil {
		o.session = &Session{}
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	if o.transport == nil {
		o.transport = transport.CreateRestyTransport(o.config.Retry.AttemptTimeout)
	}
	var recorder metrics.Recorder = metrics.Noop{}
	if o.registry != nil {
		recorder = metrics.NewPrometheus(o.registry)
	}

	cfg := o.config
	return &Client{
		session: o.session,
		locale:  cfg.Locale,
		dispatcher: dispatch.New(dispatch.Parameters{
			BaseURL:   cfg.BaseURL,
			Headers:   cfg.Headers,
			Transport: o.transport,
			Retry: &resilient.RetryParameters{
				MaxAttempts:    cfg.Retry.MaxAttempts,
				Interval:       cfg.Retry.Interval,
				AttemptTimeout: cfg.Retry.AttemptTimeout,
			},
			CircuitBreaker: &cb.CircuitBreakerParameters{
				Name:                cfg.CircuitBreaker.Name,
				HalfOpenMaxRequests: cfg.CircuitBreaker.HalfOpenMaxRequests,
				MinRequests:         cfg.CircuitBreaker.MinRequests,
				FailureRatio:        cfg.CircuitBreaker.FailureRatio,
				Interval:            cfg.CircuitBreaker.Interval,
				OpenTimeout:         cfg.CircuitBreaker.OpenTimeout,
			},
			Logger:         o.logger,
			Metrics:        recorder,
			TracerProvider: o.tracing,
		}),
	}
}

// AuthToken returns the current session token, "" before Authorize.
func (c *Client) AuthToken() string {
	return c.session.Token()
}

// SetAuthToken restores a token persisted from an earlier session.
func (c *Client) SetAuthToken(token string) {
	c.session.SetToken(token)
}

// CircuitBreakerState may be stale by the time it is read; use it to back off, not to gate calls.
func (c *Client) CircuitBreakerState() CircuitBreakerState {
	return c.dispatcher.State()
}

// authorized reads the token once and returns the header that carries it.
func (c *Client) authorized() (common.Headers, error) {
	token := c.session.Token()
	if token == "" {
		return nil, local_errors.ErrNotAuthorized
	}
	return common.Headers{{Name: authHeader, Value: token}}, nil
}

func (c *Client) get(ctx context.Context, path, rawQuery string) (common.Payload, error) {
	headers, err := c.authorized()
	if err != nil {
		return common.Payload{}, err
	}
	u := c.dispatcher.URL(path)
	if rawQuery != "" {
		u += "?" + rawQuery
	}
	return c.dispatcher.Get(ctx, &common.Request{URL: u, Headers: headers})
}

func (c *Client) post(ctx context.Context, path string, body any, gated bool) (common.Payload, error) {
	var headers common.Headers
	if gated {
		h, err := c.authorized()
		if err != nil {
			return common.Payload{}, err
		}
		headers = h
	}
	return c.dispatcher.Post(ctx, &common.Request{URL: c.dispatcher.URL(path), Headers: headers, Body: body})
}
