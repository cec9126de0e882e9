package taskmill

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmill/taskmill/internal/future"
)

func TestValidateTask(t *testing.T) {

	assert.NoError(t, validateTask[struct{}](func() {}))
	assert.NoError(t, validateTask[struct{}](func() error { return nil }))
	assert.NoError(t, validateTask[int](func() int { return 0 }))
	assert.NoError(t, validateTask[int](func() (int, error) { return 0, nil }))

	assert.ErrorIs(t, validateTask[struct{}]((func())(nil)), ErrNilTask)
	assert.ErrorIs(t, validateTask[int]((func() (int, error))(nil)), ErrNilTask)

	assert.ErrorIs(t, validateTask[struct{}](42), ErrInvalidTask)
	assert.ErrorIs(t, validateTask[int](func(int) int { return 0 }), ErrInvalidTask)
}

func TestInvokeTask(t *testing.T) {

	output, err := invokeTask[struct{}](func() {})
	assert.NoError(t, err)
	assert.Equal(t, struct{}{}, output)

	taskErr := errors.New("task failed")
	_, err = invokeTask[struct{}](func() error { return taskErr })
	assert.ErrorIs(t, err, taskErr)

	value, err := invokeTask[int](func() int { return 42 })
	assert.NoError(t, err)
	assert.Equal(t, 42, value)

	value, err = invokeTask[int](func() (int, error) { return 7, nil })
	assert.NoError(t, err)
	assert.Equal(t, 7, value)
}

func TestInvokeTaskCapturesPanic(t *testing.T) {

	_, err := invokeTask[struct{}](func() {
		panic("dummy panic")
	})

	assert.ErrorIs(t, err, ErrPanic)
	assert.Equal(t, "task panicked: dummy panic", err.Error())
}

func TestWrappedTaskResolvesHandle(t *testing.T) {

	resultFuture, resolve := future.New[int]()

	wrapped := wrappedTask[int]{
		task:    func() int { return 9 },
		resolve: resolve,
	}
	wrapped.Run()

	value, err := resultFuture.Wait()
	require.NoError(t, err)
	assert.Equal(t, 9, value)
}

func TestCountingResolverUpdatesCounters(t *testing.T) {

	pool, err := New(0)
	require.NoError(t, err)
	defer pool.Stop()

	_, resolveOK := future.New[int]()
	countingResolver(pool, resolveOK)(1, nil)

	_, resolveFail := future.New[int]()
	countingResolver(pool, resolveFail)(0, errors.New("failed"))

	assert.Equal(t, uint64(1), pool.SuccessfulTasks())
	assert.Equal(t, uint64(1), pool.FailedTasks())
	assert.Equal(t, uint64(2), pool.CompletedTasks())
}
