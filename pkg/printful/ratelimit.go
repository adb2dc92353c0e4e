package printful

import (
	"context"
	"sync"
	"time"
)

// limiter keeps request counts inside the marketplace's per-minute quota.
// It pauses a few requests short of the hard limit so bursts from other
// tooling on the same key do not tip the account into 429s.
type limiter struct {
	limit   int
	pauseAt int
	window  time.Duration

	mu          sync.Mutex
	windowStart time.Time
	count       int
}

func newLimiter(limit, pauseAt int) *limiter {
	if pauseAt <= 0 || pauseAt > limit {
		pauseAt = limit
	}
	return &limiter{
		limit:   limit,
		pauseAt: pauseAt,
		window:  time.Minute,
	}
}

// wait blocks until a request slot is available in the current window.
func (l *limiter) wait(ctx context.Context) error {
	l.mu.Lock()
	now := time.Now()

	if l.windowStart.IsZero() || now.Sub(l.windowStart) >= l.window {
		l.windowStart = now
		l.count = 0
	}

	if l.count >= l.pauseAt {
		sleep := l.window - now.Sub(l.windowStart)
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}

		l.mu.Lock()
		l.windowStart = time.Now()
		l.count = 0
	}

	l.count++
	l.mu.Unlock()
	return nil
}
