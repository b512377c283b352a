package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestMemoryLimiter_AllowsUpToLimit(t *testing.T) {
	l := NewMemoryLimiter(map[Policy]Rule{
		PolicyChat: {Window: time.Minute, MaxRequests: 3},
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		d, err := l.Allow(ctx, PolicyChat, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, d.Allowed)
		assert.Equal(t, 3, d.Limit)
		assert.Equal(t, 2-i, d.Remaining)
	}

	d, err := l.Allow(ctx, PolicyChat, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	assert.False(t, d.ResetAt.IsZero())
}

func TestMemoryLimiter_WindowReset(t *testing.T) {
	l := NewMemoryLimiter(map[Policy]Rule{
		PolicyUpload: {Window: time.Minute, MaxRequests: 1},
	})
	start := time.Now()
	l.now = fixedClock(start)

	ctx := context.Background()
	d, _ := l.Allow(ctx, PolicyUpload, "a")
	assert.True(t, d.Allowed)
	d, _ = l.Allow(ctx, PolicyUpload, "a")
	assert.False(t, d.Allowed)

	l.now = fixedClock(start.Add(61 * time.Second))
	d, _ = l.Allow(ctx, PolicyUpload, "a")
	assert.True(t, d.Allowed)
}

func TestMemoryLimiter_IdentifiersIsolated(t *testing.T) {
	l := NewMemoryLimiter(map[Policy]Rule{
		PolicyChat: {Window: time.Minute, MaxRequests: 1},
	})
	ctx := context.Background()

	d, _ := l.Allow(ctx, PolicyChat, "a")
	assert.True(t, d.Allowed)
	d, _ = l.Allow(ctx, PolicyChat, "a")
	assert.False(t, d.Allowed)
	d, _ = l.Allow(ctx, PolicyChat, "b")
	assert.True(t, d.Allowed)
}

func TestMemoryLimiter_UnconfiguredPolicyUnlimited(t *testing.T) {
	l := NewMemoryLimiter(map[Policy]Rule{})

	for i := 0; i < 100; i++ {
		d, err := l.Allow(context.Background(), PolicyWebSearch, "a")
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	}
}

func TestMemoryLimiter_SweepDropsExpiredWindows(t *testing.T) {
	l := NewMemoryLimiter(map[Policy]Rule{
		PolicyChat: {Window: time.Minute, MaxRequests: 5},
	})
	start := time.Now()
	l.now = fixedClock(start)

	ctx := context.Background()
	l.Allow(ctx, PolicyChat, "a")
	l.Allow(ctx, PolicyChat, "b")

	assert.Equal(t, 0, l.Sweep())

	l.now = fixedClock(start.Add(2 * time.Minute))
	assert.Equal(t, 2, l.Sweep())
	assert.Empty(t, l.windows)
}

func TestDecision_RetryAfter(t *testing.T) {
	now := time.Now()

	d := Decision{ResetAt: now.Add(30 * time.Second)}
	assert.Equal(t, 30, d.RetryAfter(now))

	past := Decision{ResetAt: now.Add(-time.Second)}
	assert.Equal(t, 1, past.RetryAfter(now))
}

func TestDefaultRules(t *testing.T) {
	rules := DefaultRules()

	assert.Equal(t, Rule{Window: time.Minute, MaxRequests: 10}, rules[PolicyChat])
	assert.Equal(t, Rule{Window: 10 * time.Minute, MaxRequests: 5}, rules[PolicyUpload])
	assert.Equal(t, Rule{Window: time.Minute, MaxRequests: 30}, rules[PolicyGraphSearch])
	assert.Equal(t, Rule{Window: time.Minute, MaxRequests: 20}, rules[PolicyWebSearch])
}
