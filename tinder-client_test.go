package tinderclient

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/RassulYunussov/tinderclient/common"
	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"gotest.tools/v3/assert"
)

type fakeTransport struct {
	mu       sync.Mutex
	requests []*common.Request
	respond  func(r *common.Request) (*common.Response, error)
}

func (f *fakeTransport) Do(_ context.Context, r *common.Request) (*common.Response, error) {
	f.mu.Lock()
	f.requests = append(f.requests, r)
	f.mu.Unlock()
	if f.respond == nil {
		return &common.Response{StatusCode: http.StatusOK, Status: "OK", Payload: common.ObjectPayload(common.Body{})}, nil
	}
	return f.respond(r)
}

func (f *fakeTransport) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeTransport) last() *common.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func respondWith(status int, body common.Body) func(*common.Request) (*common.Response, error) {
	return func(*common.Request) (*common.Response, error) {
		return &common.Response{StatusCode: status, Status: http.StatusText(status), Payload: common.ObjectPayload(body)}, nil
	}
}

func newTestClient(f *fakeTransport, opts ...Option) *Client {
	opts = append([]Option{
		WithTransport(f),
		WithRetry(2, 10*time.Millisecond),
		WithAttemptTimeout(time.Second),
	}, opts...)
	return New(opts...)
}

func authorizedClient(f *fakeTransport, opts ...Option) *Client {
	c := newTestClient(f, opts...)
	c.SetAuthToken("abc")
	return c
}

func object(t *testing.T, p common.Payload) common.Body {
	t.Helper()
	b, ok := p.Object()
	assert.Assert(t, ok, "payload is %T", p.Value())
	return b
}

func TestGatedOperationsWithoutTokenMakeNoCalls(t *testing.T) {
	f := &fakeTransport{}
	c := newTestClient(f)
	ctx := context.Background()

	operations := map[string]func() (common.Payload, error){
		"recs":    func() (common.Payload, error) { return c.GetRecommendations(ctx) },
		"account": func() (common.Payload, error) { return c.GetAccount(ctx) },
		"user":    func() (common.Payload, error) { return c.GetUser(ctx, "u1") },
		"updates": func() (common.Payload, error) { return c.GetUpdates(ctx) },
		"message": func() (common.Payload, error) { return c.SendMessage(ctx, "m1", "hi") },
		"like":    func() (common.Payload, error) { return c.Like(ctx, "u1", "", "", "") },
		"pass":    func() (common.Payload, error) { return c.Pass(ctx, "u1") },
	}
	for name, op := range operations {
		t.Run(name, func(t *testing.T) {
			body, err := op()
			assert.ErrorIs(t, err, ErrNotAuthorized)
			assert.Assert(t, body.IsEmpty())
		})
	}
	assert.Equal(t, 0, f.calls())
}

func TestMissingArgumentsMakeNoCalls(t *testing.T) {
	f := &fakeTransport{}
	// no token either: argument validation comes first
	c := newTestClient(f)
	ctx := context.Background()

	operations := map[string]func() (common.Payload, error){
		"authorize no token": func() (common.Payload, error) { return c.Authorize(ctx, "", "uid") },
		"authorize no user":  func() (common.Payload, error) { return c.Authorize(ctx, "tok", "") },
		"user":               func() (common.Payload, error) { return c.GetUser(ctx, "") },
		"updates null":       func() (common.Payload, error) { return c.GetUpdates(ctx, ActivityDate{}) },
		"updates zero time":  func() (common.Payload, error) { return c.GetUpdates(ctx, ActivitySince(time.Time{})) },
		"updates two dates":  func() (common.Payload, error) { return c.GetUpdates(ctx, NoActivityDate(), NoActivityDate()) },
		"message no match":   func() (common.Payload, error) { return c.SendMessage(ctx, "", "hi") },
		"message no text":    func() (common.Payload, error) { return c.SendMessage(ctx, "m1", "") },
		"like":               func() (common.Payload, error) { return c.Like(ctx, "", "p", "h", "1") },
		"pass":               func() (common.Payload, error) { return c.Pass(ctx, "") },
	}
	for name, op := range operations {
		t.Run(name, func(t *testing.T) {
			_, err := op()
			assert.ErrorIs(t, err, ErrInvalidArguments)
			assert.Assert(t, IsInvalidArguments(err))
		})
	}
	assert.Equal(t, 0, f.calls())
}

func TestAuthorizeStoresToken(t *testing.T) {
	f := &fakeTransport{respond: respondWith(http.StatusOK, common.Body{"token": "abc", "user": map[string]any{"_id": "me"}})}
	c := newTestClient(f)

	body, err := c.Authorize(context.Background(), "tok", "uid")
	assert.NilError(t, err)
	assert.Equal(t, "abc", c.AuthToken())
	assert.Equal(t, "abc", object(t, body).String("token"))
	assert.Assert(t, object(t, body)["user"] != nil)

	req := f.last()
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, DefaultBaseURL+"/auth", req.URL)
	assert.DeepEqual(t, map[string]string{"facebook_token": "tok", "facebook_id": "uid", "locale": "en"}, req.Body)
	_, hasAuth := req.Headers.Get("X-Auth-Token")
	assert.Assert(t, !hasAuth)
}

func TestAuthorizeFailureKeepsToken(t *testing.T) {
	f := &fakeTransport{respond: respondWith(http.StatusUnauthorized, nil)}
	c := newTestClient(f, WithSession(NewSession("old")))

	_, err := c.Authorize(context.Background(), "tok", "uid")
	assert.ErrorIs(t, err, ErrNotAuthorized)
	assert.Equal(t, "old", c.AuthToken())
}

func TestAuthorizeWithoutTokenKeepsSession(t *testing.T) {
	f := &fakeTransport{respond: respondWith(http.StatusOK, common.Body{"user": map[string]any{"_id": "me"}})}
	c := newTestClient(f, WithSession(NewSession("old")))

	body, err := c.Authorize(context.Background(), "tok", "uid")
	assert.ErrorIs(t, err, ErrNotAuthorized)
	assert.ErrorContains(t, err, "no token")
	assert.Assert(t, object(t, body)["user"] != nil)
	assert.Equal(t, "old", c.AuthToken())
	assert.Equal(t, 1, f.calls())
}

func TestRequestShapes(t *testing.T) {
	since := time.Date(2024, 3, 5, 7, 8, 9, 123000000, time.FixedZone("CET", 3600))

	tests := []struct {
		name   string
		call   func(c *Client) (common.Payload, error)
		method string
		url    string
		body   any
	}{
		{"recs", func(c *Client) (common.Payload, error) { return c.GetRecommendations(context.Background()) },
			http.MethodGet, "/user/recs", nil},
		{"account", func(c *Client) (common.Payload, error) { return c.GetAccount(context.Background()) },
			http.MethodGet, "/meta", nil},
		{"user", func(c *Client) (common.Payload, error) { return c.GetUser(context.Background(), "u 1") },
			http.MethodGet, "/user/u%201", nil},
		{"updates omitted", func(c *Client) (common.Payload, error) { return c.GetUpdates(context.Background()) },
			http.MethodPost, "/updates", map[string]string{"last_activity_date": ""}},
		{"updates empty", func(c *Client) (common.Payload, error) { return c.GetUpdates(context.Background(), NoActivityDate()) },
			http.MethodPost, "/updates", map[string]string{"last_activity_date": ""}},
		{"updates date", func(c *Client) (common.Payload, error) { return c.GetUpdates(context.Background(), ActivitySince(since)) },
			http.MethodPost, "/updates", map[string]string{"last_activity_date": "2024-03-05T06:08:09.123Z"}},
		{"message", func(c *Client) (common.Payload, error) { return c.SendMessage(context.Background(), "m1", "hello") },
			http.MethodPost, "/user/matches/m1", map[string]string{"message": "hello"}},
		{"like", func(c *Client) (common.Payload, error) { return c.Like(context.Background(), "u1", "p 1", "h&x", "7") },
			http.MethodGet, "/like/u1?photoId=p+1&content_hash=h%26x&s_number=7", nil},
		{"like without photo", func(c *Client) (common.Payload, error) { return c.Like(context.Background(), "u1", "", "", "") },
			http.MethodGet, "/like/u1?photoId=&content_hash=&s_number=", nil},
		{"pass", func(c *Client) (common.Payload, error) { return c.Pass(context.Background(), "u1") },
			http.MethodGet, "/pass/u1", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeTransport{respond: respondWith(http.StatusOK, common.Body{"likes_remaining": float64(10)})}
			c := authorizedClient(f)
			_, err := tt.call(c)
			assert.NilError(t, err)
			assert.Equal(t, 1, f.calls())

			req := f.last()
			assert.Equal(t, tt.method, req.Method)
			assert.Equal(t, DefaultBaseURL+tt.url, req.URL)
			if tt.body != nil {
				assert.DeepEqual(t, tt.body, req.Body)
			} else {
				assert.Assert(t, req.Body == nil)
			}
			token, _ := req.Headers.Get("X-Auth-Token")
			assert.Equal(t, "abc", token)
		})
	}
}

func TestDefaultHeadersOnEveryRequest(t *testing.T) {
	f := &fakeTransport{}
	c := authorizedClient(f, WithHeader("accept-language", "de"))
	_, err := c.GetAccount(context.Background())
	assert.NilError(t, err)

	h := f.last().Headers
	want := map[string]string{
		"User-Agent":      "Tinder Android Version 4.5.5",
		"os_version":      "23",
		"platform":        "android",
		"app-version":     "854",
		"Accept-Language": "de",
		"X-Auth-Token":    "abc",
	}
	for name, value := range want {
		got, ok := h.Get(name)
		assert.Assert(t, ok, "missing header %s", name)
		assert.Equal(t, value, got)
	}
	assert.Equal(t, len(want), len(h))
}

func TestLikeOutOfLikes(t *testing.T) {
	f := &fakeTransport{respond: respondWith(http.StatusOK, common.Body{"likes_remaining": float64(0)})}
	c := authorizedClient(f)

	body, err := c.Like(context.Background(), "u1", "", "", "")
	assert.ErrorIs(t, err, ErrOutOfLikes)
	assert.Assert(t, IsOutOfLikes(err))
	assert.Equal(t, float64(0), object(t, body)["likes_remaining"])
	assert.Equal(t, 1, f.calls(), "out of likes is not retried")
}

func TestLikeRemaining(t *testing.T) {
	f := &fakeTransport{respond: respondWith(http.StatusOK, common.Body{"likes_remaining": float64(5)})}
	c := authorizedClient(f)

	body, err := c.Like(context.Background(), "u1", "", "", "")
	assert.NilError(t, err)
	assert.Equal(t, float64(5), object(t, body)["likes_remaining"])
}

func TestLikeWithEmptyBody(t *testing.T) {
	f := &fakeTransport{respond: respondWith(http.StatusOK, nil)}
	c := authorizedClient(f)

	body, err := c.Like(context.Background(), "u1", "", "", "")
	assert.NilError(t, err)
	assert.Assert(t, body.IsEmpty())
}

func TestUnauthorizedIsNotRetried(t *testing.T) {
	f := &fakeTransport{respond: respondWith(http.StatusUnauthorized, nil)}
	c := authorizedClient(f)

	_, err := c.GetRecommendations(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthorized)
	assert.Equal(t, 1, f.calls())
}

func TestServerErrorIsRetriedThenReturned(t *testing.T) {
	f := &fakeTransport{respond: respondWith(http.StatusInternalServerError, nil)}
	c := authorizedClient(f, WithRetry(3, 5*time.Millisecond))

	_, err := c.GetUser(context.Background(), "u1")
	assert.Assert(t, IsHttpError(err))
	var e *Error
	assert.Assert(t, errors.As(err, &e))
	assert.Equal(t, http.StatusInternalServerError, e.Code)
	assert.Equal(t, "Internal Server Error", e.Message)
	assert.Equal(t, 3, f.calls())
}

func TestInternalStatusIsHttpError(t *testing.T) {
	f := &fakeTransport{respond: respondWith(http.StatusOK, common.Body{"status": float64(500), "error": "boom"})}
	c := authorizedClient(f)

	_, err := c.GetAccount(context.Background())
	assert.Equal(t, KindHTTP, KindOf(err))
	assert.Equal(t, "500 boom", err.Error())
	assert.Equal(t, 2, f.calls())
}

func TestCircuitBreakerShortCircuits(t *testing.T) {
	f := &fakeTransport{respond: respondWith(http.StatusServiceUnavailable, nil)}
	c := authorizedClient(f,
		WithRetry(1, time.Millisecond),
		WithCircuitBreaker(0.8, 3, time.Minute, time.Hour))
	assert.Equal(t, CircuitClosed, c.CircuitBreakerState())

	for i := 0; i < 3; i++ {
		_, err := c.GetAccount(context.Background())
		assert.Assert(t, IsHttpError(err))
	}
	assert.Equal(t, CircuitOpen, c.CircuitBreakerState())

	_, err := c.GetRecommendations(context.Background())
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Assert(t, IsCircuitOpen(err))
	assert.Equal(t, 3, f.calls())
}

func TestSharedSession(t *testing.T) {
	s := NewSession("")
	f := &fakeTransport{respond: respondWith(http.StatusOK, common.Body{"token": "fresh"})}
	a := newTestClient(f, WithSession(s))
	b := newTestClient(f, WithSession(s))

	_, err := a.Authorize(context.Background(), "tok", "uid")
	assert.NilError(t, err)
	assert.Equal(t, "fresh", b.AuthToken())
}

func TestClientsDoNotShareTokens(t *testing.T) {
	a := New(WithTransport(&fakeTransport{}))
	b := New(WithTransport(&fakeTransport{}))
	a.SetAuthToken("abc")
	assert.Equal(t, "", b.AuthToken())
}

func TestLoggerAndMetrics(t *testing.T) {
	var buf bytes.Buffer
	reg := prometheus.NewRegistry()
	f := &fakeTransport{}
	c := authorizedClient(f,
		WithLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))),
		WithMetrics(reg))

	_, err := c.GetAccount(context.Background())
	assert.NilError(t, err)
	assert.Assert(t, strings.Contains(buf.String(), "request_id="))
	assert.Assert(t, !strings.Contains(buf.String(), "abc"), "token must not be logged")

	count, err := testutil.GatherAndCount(reg, "tinder_client_requests_total")
	assert.NilError(t, err)
	assert.Equal(t, 1, count)
}

func TestClientsShareRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := authorizedClient(&fakeTransport{}, WithMetrics(reg))
	b := authorizedClient(&fakeTransport{}, WithMetrics(reg))

	_, err := a.GetAccount(context.Background())
	assert.NilError(t, err)
	_, err = b.GetAccount(context.Background())
	assert.NilError(t, err)

	count, err := testutil.GatherAndCount(reg, "tinder_client_requests_total")
	assert.NilError(t, err)
	assert.Equal(t, 1, count, "both clients record into one series")
	assert.Equal(t, float64(2), counterValue(t, reg, "tinder_client_requests_total"))
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	assert.NilError(t, err)
	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func TestRecommendationsAsArray(t *testing.T) {
	var calls int
	var mu sync.Mutex
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"_id":"a"}]`))
	}))
	defer s.Close()

	c := New(WithBaseURL(s.URL), WithRetry(2, 10*time.Millisecond))
	c.SetAuthToken("abc")

	body, err := c.GetRecommendations(context.Background())
	assert.NilError(t, err)
	list, ok := body.List()
	assert.Assert(t, ok)
	assert.Equal(t, 1, len(list))

	var recs []struct {
		ID string `json:"_id"`
	}
	assert.NilError(t, body.Decode(&recs))
	assert.Equal(t, "a", recs[0].ID)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls, "a list is a success and is not retried")
	assert.Equal(t, CircuitClosed, c.CircuitBreakerState())
}

func TestAgainstHttpServer(t *testing.T) {
	var mu sync.Mutex
	var seen []*http.Request
	var bodies []map[string]string
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		var body map[string]string
		_ = json.Unmarshal(data, &body)
		mu.Lock()
		seen = append(seen, r)
		bodies = append(bodies, body)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/auth":
			_, _ = w.Write([]byte(`{"token":"server-token"}`))
		case "/updates":
			if r.Header.Get("X-Auth-Token") != "server-token" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(`{"matches":[]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer s.Close()

	c := New(WithBaseURL(s.URL), WithRetry(2, 10*time.Millisecond))
	_, err := c.Authorize(context.Background(), "tok", "uid")
	assert.NilError(t, err)
	assert.Equal(t, "server-token", c.AuthToken())

	body, err := c.GetUpdates(context.Background())
	assert.NilError(t, err)
	assert.Assert(t, object(t, body)["matches"] != nil)

	_, err = c.GetUser(context.Background(), "missing")
	assert.Assert(t, IsHttpError(err))
	assert.Equal(t, "404 Not Found", err.Error())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 4, len(seen), "auth, updates and two attempts for the 404")
	assert.Equal(t, "Tinder Android Version 4.5.5", seen[0].Header.Get("User-Agent"))
	assert.Equal(t, "android", seen[1].Header.Get("platform"))
	assert.DeepEqual(t, map[string]string{"last_activity_date": ""}, bodies[1])
}
