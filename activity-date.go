package tinderclient

import (
	"time"

	local_errors "github.com/RassulYunussov/tinderclient/internal/errors"
)

// isoLayout matches the millisecond UTC form the API expects.
const isoLayout = "2006-01-02T15:04:05.000Z"

type activityKind uint8

const (
	activityUnset activityKind = iota
	activityEmpty
	activityDate
)

// ActivityDate is the argument of GetUpdates: either a point in time or empty.
// The zero value is neither and is rejected with ErrInvalidArguments.
type ActivityDate struct {
	kind activityKind
	at   time.Time
}

// NoActivityDate asks for all updates.
func NoActivityDate() ActivityDate {
	return ActivityDate{kind: activityEmpty}
}

// ActivitySince asks for updates after t. A zero t yields an invalid value.
func ActivitySince(t time.Time) ActivityDate {
	if t.IsZero() {
		return ActivityDate{}
	}
	return ActivityDate{kind: activityDate, at: t}
}

// ParseActivityDate accepts "" (no date) or an RFC 3339 timestamp.
func ParseActivityDate(s string) (ActivityDate, error) {
	if s == "" {
		return NoActivityDate(), nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return ActivityDate{}, &local_errors.Error{
			Kind:    local_errors.KindInvalidArguments,
			Message: "last activity date must be RFC 3339 or empty",
			Err:     err,
		}
	}
	return ActivitySince(t), nil
}

func (a ActivityDate) IsValid() bool {
	return a.kind != activityUnset
}

// Time returns the date and true, or false for the empty variant.
func (a ActivityDate) Time() (time.Time, bool) {
	return a.at, a.kind == activityDate
}

// String returns the wire form: ISO-8601 in UTC or "".
func (a ActivityDate) String() string {
	if a.kind != activityDate {
		return ""
	}
	return a.at.UTC().Format(isoLayout)
}
