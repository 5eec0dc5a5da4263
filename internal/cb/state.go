package cb

import "github.com/sony/gobreaker/v2"

// State is the externally visible breaker state.
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func fromGobreaker(s gobreaker.State) State {
	switch s {
	case gobreaker.StateHalfOpen:
		return StateHalfOpen
	case gobreaker.StateOpen:
		return StateOpen
	default:
		return StateClosed
	}
}

// ShouldTrip decides the closed -> open transition from the counts of the current window.
// A non-positive ratio never trips.
func ShouldTrip(requests, failures, minRequests uint32, failureRatio float64) bool {
	if failureRatio <= 0 || requests == 0 || requests < minRequests {
		return false
	}
	return float64(failures)/float64(requests) >= failureRatio
}
