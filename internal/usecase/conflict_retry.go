package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/LavaJover/bakery-order-service/internal/domain"
)

const (
	conflictBaseDelay = 10 * time.Millisecond
	conflictMaxDelay  = 200 * time.Millisecond
)

// RetryOnConflict runs fn up to attempts+1 times while it fails with
// domain.ErrConflict, backing off exponentially in between. onRetry, if set,
// is called before every retry.
func RetryOnConflict[T any](ctx context.Context, attempts int, onRetry func(attempt int), fn func() (T, error)) (T, error) {
	var zero T
	backoff := conflictBaseDelay

	for attempt := 0; ; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, domain.ErrConflict) || attempt >= attempts {
			return zero, err
		}
		if onRetry != nil {
			onRetry(attempt + 1)
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(backoff):
			backoff *= 2
			if backoff > conflictMaxDelay {
				backoff = conflictMaxDelay
			}
		}
	}
}
