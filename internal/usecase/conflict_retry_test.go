package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/LavaJover/bakery-order-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryOnConflictSucceedsAfterConflicts(t *testing.T) {
	calls := 0
	var retries []int

	got, err := RetryOnConflict(context.Background(), 3, func(attempt int) { retries = append(retries, attempt) }, func() (string, error) {
		calls++
		if calls < 3 {
			return "", fmt.Errorf("%w: version moved", domain.ErrConflict)
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retries)
}

func TestRetryOnConflictGivesUp(t *testing.T) {
	calls := 0

	_, err := RetryOnConflict(context.Background(), 2, nil, func() (int, error) {
		calls++
		return 0, domain.ErrConflict
	})

	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 3, calls)
}

func TestRetryOnConflictDoesNotRetryOtherErrors(t *testing.T) {
	calls := 0
	boom := errors.New("boom")

	_, err := RetryOnConflict(context.Background(), 5, nil, func() (int, error) {
		calls++
		return 0, boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestRetryOnConflictStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RetryOnConflict(ctx, 5, nil, func() (int, error) {
		return 0, domain.ErrConflict
	})

	assert.ErrorIs(t, err, context.Canceled)
}
