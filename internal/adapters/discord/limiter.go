package discord

import (
	"sync"
	"time"
)

// userLimiter is the per-requester rate limit applied before an invocation
// reaches the engine. It is distinct from the session cooldown: tripping it
// produces a polite message, never an engine failure.
type userLimiter struct {
	mu     sync.Mutex
	window time.Duration
	last   map[string]time.Time
}

func newUserLimiter(window time.Duration) *userLimiter {
	return &userLimiter{window: window, last: make(map[string]time.Time)}
}

// Allow admits at most one invocation per user per window.
func (l *userLimiter) Allow(userID string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if prev, ok := l.last[userID]; ok && now.Sub(prev) < l.window {
		return false
	}
	l.last[userID] = now
	return true
}
