package application

import (
	"fmt"
	"sync"
	"time"

	"github.com/fulcrumlabs/fulcrumbot/internal/domain"
)

// SessionGate owns the single Session record and serializes the
// admit-and-commit sequence. Callers never see a separate check and write:
// TryAdmit either commits the new start time or leaves the session
// untouched, atomically with respect to concurrent invocations.
type SessionGate struct {
	mu        sync.Mutex
	session   domain.Session
	threshold time.Duration
}

func NewSessionGate(threshold time.Duration) *SessionGate {
	return &SessionGate{threshold: threshold}
}

// TryAdmit admits a start request when at least the configured threshold
// has elapsed since the last session start; the boundary case of exactly
// the threshold is admitted. On admission the session is marked active
// with the new start time inside the same critical section, and the
// committed record is returned. On rejection the session is unmodified and
// ErrSessionBusy is returned.
func (g *SessionGate) TryAdmit(now time.Time) (domain.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if now.Sub(g.session.Start) < g.threshold {
		return g.session, fmt.Errorf("%w: cooldown window %s", domain.ErrSessionBusy, g.Window())
	}

	g.session = domain.Session{Active: true, Start: now}
	return g.session, nil
}

// Snapshot returns a copy of the current session record.
func (g *SessionGate) Snapshot() domain.Session {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session
}

func (g *SessionGate) Threshold() time.Duration { return g.threshold }

// Window is the configured threshold decomposed for display. It is not the
// time remaining.
func (g *SessionGate) Window() domain.CooldownWindow {
	return domain.WindowFromThreshold(g.threshold)
}
