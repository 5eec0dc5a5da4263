package errors

import (
	"errors"
	"fmt"
)

// Kind tags an Error so callers can switch on the outcome instead of the type.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidArguments
	KindNotAuthorized
	KindOutOfLikes
	KindHTTP
	KindCircuitOpen
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArguments:
		return "invalid arguments"
	case KindNotAuthorized:
		return "not authorized"
	case KindOutOfLikes:
		return "out of likes"
	case KindHTTP:
		return "http error"
	case KindCircuitOpen:
		return "circuit open"
	default:
		return "unknown"
	}
}

// Error is an immutable domain error.
type Error struct {
	Kind Kind
	// Code is the HTTP status (or the body's internal status) for KindHTTP.
	Code    int
	Message string
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindHTTP:
		return fmt.Sprintf("%d %s", e.Code, e.Message)
	case e.Message != "":
		return e.Kind.String() + ": " + e.Message
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrInvalidArguments = &Error{Kind: KindInvalidArguments}
	ErrNotAuthorized    = &Error{Kind: KindNotAuthorized}
	ErrOutOfLikes       = &Error{Kind: KindOutOfLikes}
	ErrCircuitOpen      = &Error{Kind: KindCircuitOpen}
)

func InvalidArguments(message string) error {
	return &Error{Kind: KindInvalidArguments, Message: message}
}

func HTTP(code int, message string) error {
	return &Error{Kind: KindHTTP, Code: code, Message: message}
}

func CircuitOpen(cause error) error {
	return &Error{Kind: KindCircuitOpen, Err: cause}
}

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
