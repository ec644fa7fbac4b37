package onenote

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRateLimiterDefaults(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{})
	require.NotNil(t, rl.limiter)
	assert.Equal(t, DefaultBurst, rl.limiter.Burst())
	assert.InDelta(t, DefaultRequestsPerSecond, float64(rl.limiter.Limit()), 0.001)
}

func TestRateLimiterWait(t *testing.T) {
	rl := NewRateLimiter(DefaultRateLimitConfig())
	assert.NoError(t, rl.Wait(context.Background()))
}

func TestRateLimiterWaitContextCancelled(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 1})
	rl.RecordRateLimitError(time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, rl.Wait(ctx), context.Canceled)
}

func TestRateLimiterAllowBurst(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 3})
	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow(), "request %d is within the burst", i)
	}
	assert.False(t, rl.Allow(), "burst exhausted")
}

func TestRateLimiterRecordRateLimitError(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(DefaultRateLimitConfig())
	rl.now = func() time.Time { return now }

	rl.RecordRateLimitError(2 * time.Second)
	assert.False(t, rl.Allow())

	// A shorter backoff never shortens the pause already in force.
	rl.RecordRateLimitError(time.Second)
	assert.Equal(t, now.Add(2*time.Second), rl.retryAt)

	now = now.Add(3 * time.Second)
	assert.True(t, rl.Allow())
}

func TestRateLimiterDefaultBackoff(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(DefaultRateLimitConfig())
	rl.now = func() time.Time { return now }

	rl.RecordRateLimitError(0)
	assert.Equal(t, now.Add(DefaultRateLimitBackoff), rl.retryAt)
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"missing", "", 0},
		{"seconds", "7", 7 * time.Second},
		{"negative", "-3", 0},
		{"http date", now.Add(90 * time.Second).Format(http.TimeFormat), 90 * time.Second},
		{"date in the past", now.Add(-time.Minute).Format(http.TimeFormat), 0},
		{"garbage", "soon", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseRetryAfter(tt.value, now))
		})
	}
}
