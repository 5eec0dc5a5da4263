package tinderclient

import (
	"log/slog"
	"time"

	"github.com/RassulYunussov/tinderclient/common"
	"github.com/RassulYunussov/tinderclient/internal/transport"
	"github.com/go-resty/resty/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

const DefaultBaseURL = "https://api.gotinder.com"

// Config holds every tunable of a Client. A zero field means "use the default";
// see DefaultConfig for the values.
type Config struct {
	BaseURL string
	// Headers are sent on every request. Entries replace the default header
	// of the same name; the rest of the defaults are kept.
	Headers common.Headers
	// Locale is sent with Authorize.
	Locale         string
	Retry          RetryConfig
	CircuitBreaker CircuitBreakerConfig
}

type RetryConfig struct {
	// MaxAttempts counts the first attempt.
	MaxAttempts    uint8
	Interval       time.Duration
	AttemptTimeout time.Duration
}

type CircuitBreakerConfig struct {
	Name string
	// FailureRatio in (0, 1] trips the breaker once reached within Interval.
	FailureRatio float64
	MinRequests  uint32
	Interval     time.Duration
	OpenTimeout  time.Duration
	// HalfOpenMaxRequests is the number of trial requests allowed after OpenTimeout.
	HalfOpenMaxRequests uint32
}

// DefaultConfig returns the settings the upstream service expects from an
// Android client build, plus the default resilience policy.
func DefaultConfig() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Headers: common.Headers{
			{Name: "User-Agent", Value: "Tinder Android Version 4.5.5"},
			{Name: "os_version", Value: "23"},
			{Name: "platform", Value: "android"},
			{Name: "app-version", Value: "854"},
			{Name: "Accept-Language", Value: "en"},
		},
		Locale: "en",
		Retry: RetryConfig{
			MaxAttempts:    2,
			Interval:       1000 * time.Millisecond,
			AttemptTimeout: 16000 * time.Millisecond,
		},
		CircuitBreaker: CircuitBreakerConfig{
			Name:                "tinder-api",
			FailureRatio:        0.8,
			MinRequests:         5,
			Interval:            12000 * time.Millisecond,
			OpenTimeout:         3 * time.Hour,
			HalfOpenMaxRequests: 1,
		},
	}
}

// Merge returns c with every zero field taken from defaults.
func (c Config) Merge(defaults Config) Config {
	out := defaults
	out.Headers = common.Merge(defaults.Headers, c.Headers)
	if c.BaseURL != "" {
		out.BaseURL = c.BaseURL
	}
	if c.Locale != "" {
		out.Locale = c.Locale
	}
	if c.Retry.MaxAttempts != 0 {
		out.Retry.MaxAttempts = c.Retry.MaxAttempts
	}
	if c.Retry.Interval != 0 {
		out.Retry.Interval = c.Retry.Interval
	}
	if c.Retry.AttemptTimeout != 0 {
		out.Retry.AttemptTimeout = c.Retry.AttemptTimeout
	}
	if c.CircuitBreaker.Name != "" {
		out.CircuitBreaker.Name = c.CircuitBreaker.Name
	}
	if c.CircuitBreaker.FailureRatio != 0 {
		out.CircuitBreaker.FailureRatio = c.CircuitBreaker.FailureRatio
	}
	if c.CircuitBreaker.MinRequests != 0 {
		out.CircuitBreaker.MinRequests = c.CircuitBreaker.MinRequests
	}
	if c.CircuitBreaker.Interval != 0 {
		out.CircuitBreaker.Interval = c.CircuitBreaker.Interval
	}
	if c.CircuitBreaker.OpenTimeout != 0 {
		out.CircuitBreaker.OpenTimeout = c.CircuitBreaker.OpenTimeout
	}
	if c.CircuitBreaker.HalfOpenMaxRequests != 0 {
		out.CircuitBreaker.HalfOpenMaxRequests = c.CircuitBreaker.HalfOpenMaxRequests
	}
	return out
}

type clientOptions struct {
	config    Config
	session   *Session
	transport common.Transport
	logger    *slog.Logger
	registry  prometheus.Registerer
	tracing   trace.TracerProvider
}

type Option func(*clientOptions)

// WithConfig overlays cfg on the configuration collected so far; zero fields are ignored.
func WithConfig(cfg Config) Option {
	return func(o *clientOptions) {
		o.config = cfg.Merge(o.config)
	}
}

func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		if baseURL != "" {
			o.config.BaseURL = baseURL
		}
	}
}

// WithHeader sets a header sent on every request, replacing a default of the same name.
func WithHeader(name, value string) Option {
	return func(o *clientOptions) {
		if name != "" {
			o.config.Headers = o.config.Headers.Set(name, value)
		}
	}
}

// Apply retry policy to Client. maxAttempts counts the first attempt.
func WithRetry(maxAttempts uint8, interval time.Duration) Option {
	return func(o *clientOptions) {
		if maxAttempts > 0 {
			o.config.Retry.MaxAttempts = maxAttempts
		}
		if interval > 0 {
			o.config.Retry.Interval = interval
		}
	}
}

func WithAttemptTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.config.Retry.AttemptTimeout = timeout
		}
	}
}

// Apply circuit breaker policy to Client.
// https://github.com/sony/gobreaker
func WithCircuitBreaker(failureRatio float64, minRequests uint32, interval, openTimeout time.Duration) Option {
	return func(o *clientOptions) {
		if failureRatio > 0 && failureRatio <= 1 {
			o.config.CircuitBreaker.FailureRatio = failureRatio
		}
		if minRequests > 0 {
			o.config.CircuitBreaker.MinRequests = minRequests
		}
		if interval > 0 {
			o.config.CircuitBreaker.Interval = interval
		}
		if openTimeout > 0 {
			o.config.CircuitBreaker.OpenTimeout = openTimeout
		}
	}
}

// WithSession shares or restores a session instead of starting unauthorized.
func WithSession(session *Session) Option {
	return func(o *clientOptions) {
		if session != nil {
			o.session = session
		}
	}
}

// WithTransport replaces the resty transport, e.g. with a fake in tests.
func WithTransport(transport common.Transport) Option {
	return func(o *clientOptions) {
		if transport != nil {
			o.transport = transport
		}
	}
}

// WithRestyClient sends requests through an existing resty client
// (proxies, TLS settings). Its own retry settings should stay disabled.
func WithRestyClient(client *resty.Client) Option {
	return func(o *clientOptions) {
		if client != nil {
			o.transport = transport.WrapResty(client)
		}
	}
}

// WithLogger receives debug lines per request and breaker transitions.
// Nothing is logged by default.
func WithLogger(logger *slog.Logger) Option {
	return func(o *clientOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics registers the client's Prometheus collectors on reg. Clients
// given the same reg share the collectors, including the breaker state gauge.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *clientOptions) {
		if reg != nil {
			o.registry = reg
		}
	}
}

// WithTracerProvider records one client span per call on tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *clientOptions) {
		if tp != nil {
			o.tracing = tp
		}
	}
}
