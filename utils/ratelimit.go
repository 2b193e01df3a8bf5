package utils

import (
	"sync"
	"time"
)

// RateLimiter decides whether a request identified by key may proceed.
// Implementations must be safe for concurrent use. The in-memory fixed-window
// implementation below is suitable for single-instance deployments only; a
// multi-instance deployment should inject an implementation backed by a
// shared store.
type RateLimiter interface {
	// Allow reports whether the request may proceed. When it may not,
	// retryAfter holds the seconds remaining until the window resets.
	Allow(key string) (allowed bool, retryAfter int)
}

type windowEntry struct {
	count   int
	resetAt time.Time
}

// FixedWindowLimiter is an in-memory fixed-window rate limiter.
type FixedWindowLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	max     int
	entries map[string]*windowEntry
	now     func() time.Time
}

// NewFixedWindowLimiter creates a limiter allowing max requests per window per key.
func NewFixedWindowLimiter(window time.Duration, max int) *FixedWindowLimiter {
	return &FixedWindowLimiter{
		window:  window,
		max:     max,
		entries: make(map[string]*windowEntry),
		now:     time.Now,
	}
}

// Allow implements RateLimiter.
func (l *FixedWindowLimiter) Allow(key string) (bool, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	entry, ok := l.entries[key]
	if !ok || now.After(entry.resetAt) {
		l.entries[key] = &windowEntry{count: 1, resetAt: now.Add(l.window)}
		return true, 0
	}

	if entry.count >= l.max {
		return false, int(entry.resetAt.Sub(now).Seconds()) + 1
	}

	entry.count++
	return true, 0
}
