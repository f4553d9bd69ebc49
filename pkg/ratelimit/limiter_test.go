package ratelimit_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/ratelimit"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("nil store", func(t *testing.T) {
		t.Parallel()
		limiter, err := ratelimit.New(nil)
		assert.ErrorIs(t, err, ratelimit.ErrStoreRequired)
		assert.Nil(t, limiter)
	})

	t.Run("valid store", func(t *testing.T) {
		t.Parallel()
		limiter, err := ratelimit.New(ratelimit.NewMemoryStore())
		require.NoError(t, err)
		assert.NotNil(t, limiter)
	})
}

func TestLimiter_Check_InvalidInput(t *testing.T) {
	t.Parallel()

	limiter, err := ratelimit.New(ratelimit.NewMemoryStore())
	require.NoError(t, err)

	ctx := context.Background()

	tests := []struct {
		name       string
		identifier string
		action     string
		limit      int
		window     time.Duration
		wantErr    error
	}{
		{"empty identifier", "", "otp_send", 3, time.Minute, ratelimit.ErrKeyRequired},
		{"empty action", "+27821234567", "", 3, time.Minute, ratelimit.ErrKeyRequired},
		{"zero limit", "+27821234567", "otp_send", 0, time.Minute, ratelimit.ErrInvalidLimit},
		{"negative limit", "+27821234567", "otp_send", -1, time.Minute, ratelimit.ErrInvalidLimit},
		{"zero window", "+27821234567", "otp_send", 3, 0, ratelimit.ErrInvalidWindow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := limiter.Check(ctx, tt.identifier, tt.action, tt.limit, tt.window)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, result)
		})
	}
}

func TestLimiter_Check_SlidingWindow(t *testing.T) {
	t.Parallel()

	limiter, err := ratelimit.New(ratelimit.NewMemoryStore())
	require.NoError(t, err)

	ctx := context.Background()
	identifier := "+27821234567"

	t.Run("allows up to limit then rejects", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			result, err := limiter.Check(ctx, identifier, "otp_send", 3, 900*time.Second)
			require.NoError(t, err)
			assert.True(t, result.Allowed, "check %d should be allowed", i+1)
			assert.Equal(t, 3, result.Limit)
			assert.Equal(t, 2-i, result.Remaining)
			assert.Zero(t, result.RetryAfter)
		}

		result, err := limiter.Check(ctx, identifier, "otp_send", 3, 900*time.Second)
		require.NoError(t, err)
		assert.False(t, result.Allowed)
		assert.Equal(t, 0, result.Remaining)
		assert.GreaterOrEqual(t, result.RetryAfter, time.Second)
		assert.LessOrEqual(t, result.RetryAfter, 900*time.Second)
	})

	t.Run("actions are independent buckets", func(t *testing.T) {
		result, err := limiter.Check(ctx, identifier, "otp_verify", 3, 900*time.Second)
		require.NoError(t, err)
		assert.True(t, result.Allowed)
	})

	t.Run("window expiry readmits", func(t *testing.T) {
		key := "+27731234567"
		for i := 0; i < 2; i++ {
			result, err := limiter.Check(ctx, key, "otp_send", 2, 100*time.Millisecond)
			require.NoError(t, err)
			assert.True(t, result.Allowed)
		}

		result, err := limiter.Check(ctx, key, "otp_send", 2, 100*time.Millisecond)
		require.NoError(t, err)
		assert.False(t, result.Allowed)

		time.Sleep(110 * time.Millisecond)

		result, err = limiter.Check(ctx, key, "otp_send", 2, 100*time.Millisecond)
		require.NoError(t, err)
		assert.True(t, result.Allowed)
	})
}

func TestLimiter_Reset(t *testing.T) {
	t.Parallel()

	limiter, err := ratelimit.New(ratelimit.NewMemoryStore())
	require.NoError(t, err)

	ctx := context.Background()
	identifier := "+27601234567"

	for i := 0; i < 3; i++ {
		_, err := limiter.Check(ctx, identifier, "otp_verify", 3, time.Hour)
		require.NoError(t, err)
	}

	result, err := limiter.Check(ctx, identifier, "otp_verify", 3, time.Hour)
	require.NoError(t, err)
	require.False(t, result.Allowed)

	require.NoError(t, limiter.Reset(ctx, identifier, "otp_verify"))

	result, err = limiter.Check(ctx, identifier, "otp_verify", 3, time.Hour)
	require.NoError(t, err)
	assert.True(t, result.Allowed)

	t.Run("empty key rejected", func(t *testing.T) {
		assert.ErrorIs(t, limiter.Reset(ctx, "", "otp_verify"), ratelimit.ErrKeyRequired)
	})
}

func TestLimiter_Concurrent(t *testing.T) {
	t.Parallel()

	limiter, err := ratelimit.New(ratelimit.NewMemoryStore())
	require.NoError(t, err)

	ctx := context.Background()

	const goroutines = 20
	const perGoroutine = 10
	const limit = 50

	var allowed, denied int
	var mu sync.Mutex
	var wg sync.WaitGroup

	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				result, err := limiter.Check(ctx, "shared", "burst", limit, time.Minute)
				if err != nil {
					continue
				}
				mu.Lock()
				if result.Allowed {
					allowed++
				} else {
					denied++
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, limit, allowed, "should admit exactly the limit")
	assert.Equal(t, goroutines*perGoroutine-limit, denied)
}

func TestMemoryStore_Sweep(t *testing.T) {
	t.Parallel()

	store := ratelimit.NewMemoryStore(
		ratelimit.WithCleanupInterval(time.Nanosecond),
		ratelimit.WithStaleAfter(time.Millisecond),
	)
	limiter, err := ratelimit.New(store)
	require.NoError(t, err)

	ctx := context.Background()

	_, err = limiter.Check(ctx, "short-lived", "probe", 1, time.Hour)
	require.NoError(t, err)
	require.Equal(t, 1, store.Len())

	time.Sleep(5 * time.Millisecond)

	// The next check sweeps the idle key while recording the new one.
	_, err = limiter.Check(ctx, "long-lived", "probe", 1, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, 1, store.Len(), "idle key should have been swept")
}
