// Package dispatch executes one logical API request through the retry,
// circuit breaker and classification layers.
package dispatch

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/RassulYunussov/tinderclient/common"
	"github.com/RassulYunussov/tinderclient/internal/cb"
	"github.com/RassulYunussov/tinderclient/internal/classifier"
	local_errors "github.com/RassulYunussov/tinderclient/internal/errors"
	"github.com/RassulYunussov/tinderclient/internal/metrics"
	"github.com/RassulYunussov/tinderclient/internal/resilient"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/RassulYunussov/tinderclient"

type Parameters struct {
	BaseURL string
	// Headers are applied to every request; per-call headers are layered on top.
	Headers        common.Headers
	Transport      common.Transport
	Retry          *resilient.RetryParameters
	CircuitBreaker *cb.CircuitBreakerParameters
	Logger         *slog.Logger
	Metrics        metrics.Recorder
	// TracerProvider defaults to the global provider.
	TracerProvider trace.TracerProvider
}

type Dispatcher struct {
	baseURL string
	headers common.Headers
	chain   common.Transport
	breaker *cb.CircuitBreakerTransport
	logger  *slog.Logger
	metrics metrics.Recorder
	tracer  trace.Tracer
}

type requestIDKey struct{}

// New builds the chain retry -> circuit breaker -> classifier -> transport.
// p.Retry and p.CircuitBreaker are copied; the caller's hooks are kept.
func New(p Parameters) *Dispatcher {
	d := &Dispatcher{
		baseURL: strings.TrimRight(p.BaseURL, "/"),
		headers: p.Headers,
		logger:  p.Logger,
		metrics: p.Metrics,
	}
	if d.logger == nil {
		d.logger = slog.New(slog.DiscardHandler)
	}
	if d.metrics == nil {
		d.metrics = metrics.Noop{}
	}
	tp := p.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	d.tracer = tp.Tracer(instrumentationName)

	breakerParameters := cb.CircuitBreakerParameters{}
	if p.CircuitBreaker != nil {
		breakerParameters = *p.CircuitBreaker
	}
	onStateChange := breakerParameters.OnStateChange
	breakerParameters.OnStateChange = func(from, to cb.State) {
		d.logger.Warn("circuit breaker state changed",
			slog.String("circuit", breakerParameters.Name),
			slog.String("from", from.String()),
			slog.String("to", to.String()))
		d.metrics.RecordBreakerState(int(to))
		if onStateChange != nil {
			onStateChange(from, to)
		}
	}
	d.breaker = cb.CreateCircuitBreakerTransport(classifier.CreateClassifyingTransport(p.Transport), &breakerParameters)

	retryParameters := resilient.RetryParameters{}
	if p.Retry != nil {
		retryParameters = *p.Retry
	}
	onRetry := retryParameters.OnRetry
	retryParameters.OnRetry = func(ctx context.Context, r *common.Request, attempt int, err error) {
		d.logger.Debug("request failed, retrying",
			slog.String("request_id", requestID(ctx)),
			slog.String("method", r.Method),
			slog.Int("attempt", attempt),
			slog.Any("error", err))
		d.metrics.RecordRetry(r.Method)
		trace.SpanFromContext(ctx).AddEvent("retry", trace.WithAttributes(
			attribute.Int("attempt", attempt),
			attribute.String("error", err.Error())))
		if onRetry != nil {
			onRetry(ctx, r, attempt, err)
		}
	}
	d.chain = resilient.CreateResilientTransport(d.breaker, &retryParameters)
	d.metrics.RecordBreakerState(int(cb.StateClosed))
	return d
}

// URL joins path onto the base URL.
func (d *Dispatcher) URL(path string) string {
	return d.baseURL + path
}

func (d *Dispatcher) Get(ctx context.Context, r *common.Request) (common.Payload, error) {
	return d.do(ctx, http.MethodGet, r)
}

func (d *Dispatcher) Post(ctx context.Context, r *common.Request) (common.Payload, error) {
	return d.do(ctx, http.MethodPost, r)
}

// State returns a snapshot of the shared breaker.
func (d *Dispatcher) State() cb.State {
	return d.breaker.State()
}

func (d *Dispatcher) do(ctx context.Context, method string, r *common.Request) (common.Payload, error) {
	req := &common.Request{
		Method:  method,
		URL:     r.URL,
		Headers: common.Merge(d.headers, r.Headers),
		Body:    r.Body,
	}
	id := uuid.NewString()
	ctx = context.WithValue(ctx, requestIDKey{}, id)
	ctx, span := d.tracer.Start(ctx, method+" "+path(req.URL),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("request_id", id)))
	defer span.End()
	d.logger.Debug("dispatching request",
		slog.String("request_id", id),
		slog.String("method", method),
		slog.String("url", req.URL))

	start := time.Now()
	resp, err := d.chain.Do(ctx, req)
	elapsed := time.Since(start)
	d.metrics.RecordRequest(method, outcome(err), elapsed)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome(err))
		d.logger.Debug("request failed",
			slog.String("request_id", id),
			slog.Duration("duration", elapsed),
			slog.Any("error", err))
		return common.Payload{}, err
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	d.logger.Debug("request completed",
		slog.String("request_id", id),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", elapsed))
	return resp.Payload, nil
}

func outcome(err error) string {
	if err == nil {
		return "success"
	}
	if kind := local_errors.KindOf(err); kind != local_errors.KindUnknown {
		return kind.String()
	}
	return "transport error"
}

// path drops the host and the query string from span names.
func path(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Path
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
