package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulcrumlabs/fulcrumbot/internal/domain"
)

func TestDaemonMonitorExhaustsExactlyMaxChecks(t *testing.T) {
	t.Parallel()

	runtime := &fakeRuntime{pingErrs: alwaysDown(10)}
	monitor := NewDaemonMonitor(runtime, 3, 0, discardLogger())

	err := monitor.EnsureReady(context.Background())
	require.ErrorIs(t, err, domain.ErrDaemonUnavailable)
	assert.Equal(t, 3, runtime.pingCalls)
	assert.Equal(t, 1, runtime.daemonStarts)
	assert.False(t, monitor.Ready())
}

func TestDaemonMonitorSucceedsOnLaterProbe(t *testing.T) {
	t.Parallel()

	runtime := &fakeRuntime{pingErrs: alwaysDown(2)} // third probe succeeds
	monitor := NewDaemonMonitor(runtime, 5, 0, discardLogger())

	err := monitor.EnsureReady(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, runtime.pingCalls)
	assert.True(t, monitor.Ready())
}

func TestDaemonMonitorCachesReadiness(t *testing.T) {
	t.Parallel()

	runtime := &fakeRuntime{}
	monitor := NewDaemonMonitor(runtime, 3, 0, discardLogger())

	require.NoError(t, monitor.EnsureReady(context.Background()))
	require.NoError(t, monitor.EnsureReady(context.Background()))
	require.NoError(t, monitor.EnsureReady(context.Background()))

	assert.Equal(t, 1, runtime.pingCalls, "no re-probing after readiness is confirmed")
	assert.Equal(t, 1, runtime.daemonStarts, "daemon launch is issued once")
}

func TestDaemonMonitorCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runtime := &fakeRuntime{pingErrs: alwaysDown(10)}
	monitor := NewDaemonMonitor(runtime, 3, time.Hour, discardLogger())

	err := monitor.EnsureReady(ctx)
	require.ErrorIs(t, err, domain.ErrDaemonUnavailable)
	assert.Equal(t, 1, runtime.pingCalls, "cancellation stops the poll loop at the wait")
}
