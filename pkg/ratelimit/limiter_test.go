package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedDelayPauses(t *testing.T) {
	pacer := NewFixedDelay(50 * time.Millisecond)
	assert.Equal(t, 50*time.Millisecond, pacer.Delay())

	start := time.Now()
	require.NoError(t, pacer.Pause(context.Background(), 0))
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestFixedDelayZero(t *testing.T) {
	pacer := NewFixedDelay(0)

	start := time.Now()
	require.NoError(t, pacer.Pause(context.Background(), 0))
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestFixedDelayCancelled(t *testing.T) {
	pacer := NewFixedDelay(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := pacer.Pause(ctx, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRecordingPacer(t *testing.T) {
	pacer := &RecordingPacer{}
	for i := 0; i < 3; i++ {
		require.NoError(t, pacer.Pause(context.Background(), 0))
	}
	require.NoError(t, pacer.Pause(context.Background(), 5*time.Millisecond))
	assert.Equal(t, 4, pacer.Count())
	assert.Equal(t, 5*time.Millisecond, pacer.Extra())
}

func TestFixedDelayAddsExtra(t *testing.T) {
	pacer := NewFixedDelay(20 * time.Millisecond)

	start := time.Now()
	require.NoError(t, pacer.Pause(context.Background(), 30*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)

	start = time.Now()
	require.NoError(t, pacer.Pause(context.Background(), -time.Hour))
	assert.Less(t, time.Since(start), time.Second, "negative extra is ignored")
}

func TestRequestLimiter(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		limiter := NewRequestLimiter(0)
		start := time.Now()
		for i := 0; i < 10; i++ {
			require.NoError(t, limiter.Wait(context.Background()))
		}
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("enforces spacing", func(t *testing.T) {
		// 600/min = one request every 100ms, burst of one
		limiter := NewRequestLimiter(600)
		start := time.Now()
		for i := 0; i < 3; i++ {
			require.NoError(t, limiter.Wait(context.Background()))
		}
		assert.GreaterOrEqual(t, time.Since(start), 180*time.Millisecond)
	})

	t.Run("cancelled", func(t *testing.T) {
		limiter := NewRequestLimiter(1)
		require.NoError(t, limiter.Wait(context.Background()))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		assert.Error(t, limiter.Wait(ctx))
	})
}
