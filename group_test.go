package taskmill

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskGroupWait(t *testing.T) {

	pool, err := New(4)
	require.NoError(t, err)

	group := pool.Group()

	taskCount := 20
	var executedCount atomic.Int64

	for i := 0; i < taskCount; i++ {
		err := group.Submit(func() {
			executedCount.Add(1)
		})
		require.NoError(t, err)
	}

	group.Wait()

	assert.Equal(t, int64(taskCount), executedCount.Load())

	pool.StopAndWait()
}

func TestTaskGroupSubmitNilTask(t *testing.T) {

	pool, err := New(1)
	require.NoError(t, err)
	defer pool.StopAndWait()

	group := pool.Group()

	assert.ErrorIs(t, group.Submit(nil), ErrNilTask)
}

func TestTaskGroupSubmitAfterStop(t *testing.T) {

	pool, err := New(1)
	require.NoError(t, err)

	group := pool.Group()
	pool.StopAndWait()

	assert.ErrorIs(t, group.Submit(func() {}), ErrPoolStopped)

	// Wait must not hang on the rejected task.
	group.Wait()
}
