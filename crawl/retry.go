package crawl

import (
	"context"
	"time"
)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays for retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// Retry calls fn until it succeeds, retrying once per entry in delays and
// waiting that long before each retry. The logger, if provided, is called
// for each retry attempt. The last error is returned when all attempts fail.
func Retry[T any](ctx context.Context, name string, delays []time.Duration, logger LogFunc, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		// Don't retry after the last attempt
		if attempt >= maxAttempts-1 {
			break
		}

		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		if logger != nil {
			logger("retry %s (attempt %d): %v", name, attempt+2, err)
		}

		if err := Sleep(ctx, delays[attempt]); err != nil {
			return zero, err
		}
	}

	return zero, lastErr
}
