package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFixedWindowLimiterAllowsUpToMax(t *testing.T) {
	limiter := NewFixedWindowLimiter(time.Minute, 3)

	for i := 0; i < 3; i++ {
		allowed, _ := limiter.Allow("1.2.3.4:/v1/login")
		require.True(t, allowed)
	}
	allowed, retryAfter := limiter.Allow("1.2.3.4:/v1/login")
	require.False(t, allowed)
	require.Greater(t, retryAfter, 0)
}

func TestFixedWindowLimiterKeysAreIndependent(t *testing.T) {
	limiter := NewFixedWindowLimiter(time.Minute, 1)

	allowed, _ := limiter.Allow("1.2.3.4:/v1/login")
	require.True(t, allowed)
	allowed, _ = limiter.Allow("1.2.3.4:/v1/login")
	require.False(t, allowed)

	allowed, _ = limiter.Allow("5.6.7.8:/v1/login")
	require.True(t, allowed)
}

func TestFixedWindowLimiterResetsAfterWindow(t *testing.T) {
	limiter := NewFixedWindowLimiter(time.Minute, 1)
	current := time.Now()
	limiter.now = func() time.Time { return current }

	allowed, _ := limiter.Allow("1.2.3.4:/v1/login")
	require.True(t, allowed)
	allowed, _ = limiter.Allow("1.2.3.4:/v1/login")
	require.False(t, allowed)

	current = current.Add(61 * time.Second)
	allowed, _ = limiter.Allow("1.2.3.4:/v1/login")
	require.True(t, allowed)
}
