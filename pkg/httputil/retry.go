package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a failure worth repeating: a dropped connection, a
// 5xx from the host, a rate-limit response. Clients wrap those before
// returning so [Retry] can tell them apart from permanent rejections like
// a bad credential or a malformed print file.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry runs fn until it succeeds, fails permanently, or exhausts the
// attempt budget. Only [RetryableError] failures are repeated; anything
// else returns immediately. The wait doubles between attempts, and a
// cancelled context cuts the waiting short with ctx.Err().
func Retry(ctx context.Context, attempts int, wait time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !errors.As(err, new(*RetryableError)) || attempt == attempts {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}
}

// RetryWithBackoff applies the standard upload policy: three attempts
// starting one second apart.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, 3, time.Second, fn)
}
