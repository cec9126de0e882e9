package taskmill

import (
	"github.com/taskmill/taskmill/internal/future"
)

// ResultFunc is the set of function shapes accepted as result-producing
// tasks. Arguments are bound by closure at submission time.
type ResultFunc[R any] interface {
	~func() R | ~func() (R, error)
}

// Submit sends a result-producing task to the pool and returns the handle
// through which the result (or the task's failure) is read. The handle's
// value type matches the task function's return type.
func Submit[R any, T ResultFunc[R]](pool *Pool, task T) (ResultTask[R], error) {
	if err := validateTask[R](any(task)); err != nil {
		return nil, err
	}

	resultFuture, resolve := future.New[R]()

	wrapped := wrappedTask[R]{
		task:    any(task),
		resolve: countingResolver(pool, resolve),
	}

	if err := pool.submit(wrapped.Run); err != nil {
		return nil, err
	}

	return &resultTaskHandle[R]{future: resultFuture}, nil
}
