package common

import "context"

// Transport performs one raw HTTP exchange.
// Implementations decode JSON payloads into Response.Payload and must not retry,
// classify or short-circuit: the dispatcher layers those policies on top.
type Transport interface {
	Do(ctx context.Context, r *Request) (*Response, error)
}

// TransportFunc adapts a plain function to Transport.
type TransportFunc func(ctx context.Context, r *Request) (*Response, error)

func (f TransportFunc) Do(ctx context.Context, r *Request) (*Response, error) {
	return f(ctx, r)
}

// Request describes a single API call. It is built per call and not modified
// after it has been handed to a Transport.
type Request struct {
	Method  string
	URL     string
	Headers Headers
	// Body is encoded as JSON when non-nil.
	Body any
}

// Response is the transport's view of an HTTP response.
type Response struct {
	StatusCode int
	Status     string
	// Payload is the decoded JSON value of any shape; empty when the response
	// had no body, or when an error response was not JSON.
	Payload Payload
	Raw     []byte
}
