package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestLimiter(cfg Config, now *time.Time) *MemoryLimiter {
	l := NewMemoryLimiter(cfg)
	l.now = func() time.Time { return *now }
	return l
}

func TestMemoryLimiterWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := newTestLimiter(Config{Requests: 10, Window: 60 * time.Second}, &now)

	for i := 0; i < 10; i++ {
		decision, err := l.Allow(context.Background(), "1.2.3.4")
		require.NoError(t, err)
		require.True(t, decision.Allowed, "request %d", i+1)
	}

	decision, err := l.Allow(context.Background(), "1.2.3.4")
	require.NoError(t, err)
	require.False(t, decision.Allowed)
	require.Equal(t, 60*time.Second, decision.RetryAfter)

	// A different key is unaffected.
	decision, err = l.Allow(context.Background(), "5.6.7.8")
	require.NoError(t, err)
	require.True(t, decision.Allowed)

	// Once the oldest stamp leaves the window the key recovers.
	now = now.Add(61 * time.Second)
	decision, err = l.Allow(context.Background(), "1.2.3.4")
	require.NoError(t, err)
	require.True(t, decision.Allowed)
}

func TestMemoryLimiterRetryAfterShrinks(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := newTestLimiter(Config{Requests: 1, Window: 60 * time.Second}, &now)

	decision, err := l.Allow(context.Background(), "k")
	require.NoError(t, err)
	require.True(t, decision.Allowed)

	now = now.Add(45 * time.Second)
	decision, err = l.Allow(context.Background(), "k")
	require.NoError(t, err)
	require.False(t, decision.Allowed)
	require.Equal(t, 15*time.Second, decision.RetryAfter)
}

func TestMemoryLimiterDefaults(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := newTestLimiter(Config{}, &now)

	for i := 0; i < 10; i++ {
		decision, err := l.Allow(context.Background(), "k")
		require.NoError(t, err)
		require.True(t, decision.Allowed)
	}
	decision, err := l.Allow(context.Background(), "k")
	require.NoError(t, err)
	require.False(t, decision.Allowed)
}

func TestMemoryLimiterEviction(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := newTestLimiter(Config{Requests: 2, Window: 60 * time.Second, MaxClients: 2}, &now)

	_, err := l.Allow(context.Background(), "a")
	require.NoError(t, err)
	_, err = l.Allow(context.Background(), "b")
	require.NoError(t, err)

	// "a" goes idle; a third key forces its eviction.
	now = now.Add(2 * time.Minute)
	_, err = l.Allow(context.Background(), "b")
	require.NoError(t, err)
	decision, err := l.Allow(context.Background(), "c")
	require.NoError(t, err)
	require.True(t, decision.Allowed)
	require.LessOrEqual(t, len(l.clients), 3)
	require.Contains(t, l.clients, "c")
}
