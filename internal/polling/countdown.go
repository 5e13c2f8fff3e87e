package polling

import (
	"context"
	"time"
)

// Countdown produces the remaining wait time for one backoff window:
// a tick immediately, then one every tick period, until total elapses or
// ctx is cancelled, whichever comes first. The channel is closed as soon
// as either signal fires; no late tick is delivered. Each wait gets a
// fresh channel.
//
// A tick period of zero yields only the immediate tick, then waits out
// the window silently.
func Countdown(ctx context.Context, total, tick time.Duration) <-chan time.Duration {
	out := make(chan time.Duration)

	go func() {
		defer close(out)

		if total <= 0 {
			return
		}

		start := time.Now()
		deadline := time.NewTimer(total)
		defer deadline.Stop()

		select {
		case out <- total:
		case <-deadline.C:
			return
		case <-ctx.Done():
			return
		}

		if tick <= 0 {
			select {
			case <-deadline.C:
			case <-ctx.Done():
			}
			return
		}

		ticker := time.NewTicker(tick)
		defer ticker.Stop()

		for {
			select {
			case <-deadline.C:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				remaining := total - time.Since(start)
				if remaining < 0 {
					remaining = 0
				}
				select {
				case out <- remaining:
				case <-deadline.C:
					return
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}

// RemainingSeconds rounds a remaining duration up to whole seconds for
// display, never below zero.
func RemainingSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}
