package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/KanujanS/LMS/internal/errdefs"
)

// IsRetriable reports whether an error is worth retrying. A lookup miss can be
// replication lag between the write that created the row and our read, so it
// is retried; everything else fails immediately.
func IsRetriable(err error) bool {
	return errors.Is(err, errdefs.ErrNotFound)
}

// Retry runs fn up to maxAttempts times with a fixed delay between attempts.
// The delay blocks only the calling goroutine; concurrent events are not held
// up. Context cancellation aborts the wait.
func Retry[T any](
	ctx context.Context,
	maxAttempts int,
	delay time.Duration,
	fn func() (T, error),
) (T, error) {
	var zero T
	if maxAttempts <= 0 {
		return zero, fmt.Errorf("maxAttempts must be > 0, got %d", maxAttempts)
	}
	var lastErr error

	for i := range maxAttempts {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !IsRetriable(err) {
			return zero, err
		}

		if i < maxAttempts-1 {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return zero, fmt.Errorf("after %d attempts: %w", maxAttempts, lastErr)
}
