package polling

import "time"

// Delay computes the wait before the next attempt. attemptIndex is the
// number of failed attempts so far (0 before the first retry).
//
// Linear returns interval unconditionally. Exponential returns
// interval * 2^attemptIndex with no jitter and no clamp: growth is
// bounded only by the already-validated interval and retries limits.
func Delay(interval time.Duration, attemptIndex int, strategy Strategy) time.Duration {
	if strategy == StrategyExponential {
		return interval << uint(attemptIndex)
	}
	return interval
}
