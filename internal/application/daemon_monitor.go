package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fulcrumlabs/fulcrumbot/internal/domain"
	"github.com/fulcrumlabs/fulcrumbot/internal/ports"
)

// DaemonMonitor confirms the container daemon is reachable before an
// invocation proceeds. Readiness, once observed, is cached for the process
// lifetime; subsequent calls return immediately.
type DaemonMonitor struct {
	runtime      ports.ContainerRuntime
	maxChecks    int
	pollInterval time.Duration
	logger       *slog.Logger

	mu    sync.Mutex
	ready bool
}

func NewDaemonMonitor(runtime ports.ContainerRuntime, maxChecks int, pollInterval time.Duration, logger *slog.Logger) *DaemonMonitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &DaemonMonitor{
		runtime:      runtime,
		maxChecks:    maxChecks,
		pollInterval: pollInterval,
		logger:       logger,
	}
}

// EnsureReady issues a daemon start once, then probes up to maxChecks
// times with pollInterval between attempts. Exactly maxChecks probes run
// before ErrDaemonUnavailable is returned. Context cancellation during the
// wait also surfaces as ErrDaemonUnavailable.
//
// Concurrent callers serialize on the monitor; the second caller observes
// the first one's result instead of probing again.
func (m *DaemonMonitor) EnsureReady(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ready {
		return nil
	}

	if err := m.runtime.StartDaemon(ctx); err != nil {
		m.logger.Warn("daemon start request failed", "error", err)
	}

	var lastErr error
	for attempt := 1; attempt <= m.maxChecks; attempt++ {
		err := m.runtime.Ping(ctx)
		if err == nil {
			m.ready = true
			return nil
		}
		lastErr = err
		m.logger.Warn("daemon probe failed", "attempt", attempt, "max_checks", m.maxChecks, "error", err)

		if attempt == m.maxChecks {
			break
		}

		select {
		case <-time.After(m.pollInterval):
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", domain.ErrDaemonUnavailable, ctx.Err())
		}
	}

	return fmt.Errorf("%w after %d checks: %v", domain.ErrDaemonUnavailable, m.maxChecks, lastErr)
}

// Ready reports whether readiness has been confirmed.
func (m *DaemonMonitor) Ready() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ready
}
