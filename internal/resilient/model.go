package resilient

import (
	"context"
	"time"

	"github.com/RassulYunussov/tinderclient/common"
)

type RetryParameters struct {
	// MaxAttempts counts the first attempt; 0 and 1 both mean a single attempt.
	MaxAttempts uint8
	// Interval is the fixed delay between attempts.
	Interval time.Duration
	// AttemptTimeout bounds each attempt separately; 0 disables it.
	AttemptTimeout time.Duration
	ShouldRetry    func(error) bool
	// OnRetry is called before waiting for the next attempt.
	OnRetry func(ctx context.Context, r *common.Request, attempt int, err error)
}
