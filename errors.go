package tinderclient

import (
	"errors"

	local_errors "github.com/RassulYunussov/tinderclient/internal/errors"
)

// Error is the domain error returned by every Client operation, except raw
// transport failures (network errors, timeouts) which are returned as-is.
type Error = local_errors.Error

// ErrorKind tags an Error.
type ErrorKind = local_errors.Kind

const (
	KindUnknown          = local_errors.KindUnknown
	KindInvalidArguments = local_errors.KindInvalidArguments
	KindNotAuthorized    = local_errors.KindNotAuthorized
	KindOutOfLikes       = local_errors.KindOutOfLikes
	KindHTTP             = local_errors.KindHTTP
	KindCircuitOpen      = local_errors.KindCircuitOpen
)

// Sentinels for errors.Is; they match any Error of the same kind.
var (
	ErrInvalidArguments = local_errors.ErrInvalidArguments
	ErrNotAuthorized    = local_errors.ErrNotAuthorized
	ErrOutOfLikes       = local_errors.ErrOutOfLikes
	ErrCircuitOpen      = local_errors.ErrCircuitOpen
)

// KindOf returns the kind of err, KindUnknown for transport failures and nil.
func KindOf(err error) ErrorKind {
	return local_errors.KindOf(err)
}

func IsInvalidArguments(err error) bool {
	return errors.Is(err, local_errors.ErrInvalidArguments)
}

func IsNotAuthorized(err error) bool {
	return errors.Is(err, local_errors.ErrNotAuthorized)
}

func IsOutOfLikes(err error) bool {
	return errors.Is(err, local_errors.ErrOutOfLikes)
}

func IsCircuitOpen(err error) bool {
	return errors.Is(err, local_errors.ErrCircuitOpen)
}

// IsHttpError reports a non-2xx response or a non-200 status inside the body.
func IsHttpError(err error) bool {
	return local_errors.KindOf(err) == local_errors.KindHTTP
}
