package taskmill

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithRateLimit(t *testing.T) {

	pool, err := New(4, WithRateLimit(100, 1))
	require.NoError(t, err)

	taskCount := 20
	start := time.Now()

	for i := 0; i < taskCount; i++ {
		_, err := pool.Submit(func() {})
		require.NoError(t, err)
	}

	pool.StopAndWait()
	elapsed := time.Since(start)

	// 20 tasks at 100/s with burst 1 need roughly 190ms; keep a wide
	// margin to avoid flaking on slow machines.
	assert.GreaterOrEqual(t, elapsed, 100*time.Millisecond)
}

func TestWithRateLimitIgnoresInvalidValues(t *testing.T) {

	pool, err := New(1, WithRateLimit(-1, 0))
	require.NoError(t, err)

	assert.Nil(t, pool.limiter)

	handle, err := pool.Submit(func() {})
	require.NoError(t, err)
	assert.NoError(t, handle.Wait())

	pool.StopAndWait()
}

func TestWithLoggerReportsEscapedPanics(t *testing.T) {

	core, logs := observer.New(zap.ErrorLevel)

	pool, err := New(1, WithLogger(zap.New(core)))
	require.NoError(t, err)

	// Go tasks have no handle to capture their panic, so it escapes into
	// the worker loop, where it must be logged and suppressed.
	require.NoError(t, pool.Go(func() {
		panic("boom")
	}))

	// The worker must survive and keep serving tasks.
	handle, err := pool.Submit(func() {})
	require.NoError(t, err)
	require.NoError(t, handle.Wait())

	pool.StopAndWait()

	entries := logs.FilterMessage("recovered from panic in worker").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "boom", entries[0].ContextMap()["panic"])
}

func TestWithNilLoggerFallsBackToNop(t *testing.T) {

	pool, err := New(1, WithLogger(nil))
	require.NoError(t, err)

	require.NoError(t, pool.Go(func() {
		panic("boom")
	}))

	pool.StopAndWait()
}
