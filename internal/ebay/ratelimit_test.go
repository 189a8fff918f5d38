package ebay

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_DailyLimit(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1000, 1000, 3)
	ctx := context.Background()

	for range 3 {
		require.NoError(t, rl.Wait(ctx))
	}

	err := rl.Wait(ctx)
	assert.ErrorIs(t, err, ErrDailyLimitReached)
	assert.Equal(t, int64(3), rl.DailyCount())
	assert.Zero(t, rl.Remaining())
}

func TestRateLimiter_WindowReset(t *testing.T) {
	t.Parallel()

	now := time.Unix(0, 0)
	rl := NewRateLimiter(1000, 1000, 1,
		WithRateLimiterNowFunc(func() time.Time { return now }),
	)
	ctx := context.Background()

	require.NoError(t, rl.Wait(ctx))
	require.ErrorIs(t, rl.Wait(ctx), ErrDailyLimitReached)

	now = now.Add(24*time.Hour + time.Second)
	assert.NoError(t, rl.Wait(ctx), "quota resets after the 24h window")
	assert.Equal(t, int64(1), rl.DailyCount())
}

func TestRateLimiter_ContextCancellation(t *testing.T) {
	t.Parallel()

	// Zero refill rate and an exhausted burst force Wait to block.
	rl := NewRateLimiter(0, 0, 10)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := rl.Wait(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDailyLimitReached)
}
