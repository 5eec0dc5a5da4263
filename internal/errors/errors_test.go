package errors

import (
	"errors"
	"fmt"
	"testing"

	"gotest.tools/v3/assert"
)

func TestSentinelsMatchByKind(t *testing.T) {
	err := &Error{Kind: KindNotAuthorized, Message: "token expired"}
	assert.Assert(t, errors.Is(err, ErrNotAuthorized))
	assert.Assert(t, !errors.Is(err, ErrOutOfLikes))
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("recs: %w", HTTP(500, "Internal Server Error"))
	assert.Equal(t, KindHTTP, KindOf(err))
	assert.Equal(t, KindUnknown, KindOf(errors.New("dial tcp: refused")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestHTTPErrorMessage(t *testing.T) {
	assert.Error(t, HTTP(503, "Service Unavailable"), "503 Service Unavailable")
	assert.Error(t, InvalidArguments("userId is required"), "invalid arguments: userId is required")
	assert.Error(t, ErrNotAuthorized, "not authorized")
}

func TestCircuitOpenUnwrapsCause(t *testing.T) {
	cause := errors.New("circuit breaker is open")
	err := CircuitOpen(cause)
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrCircuitOpen)
}
