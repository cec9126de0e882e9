package taskmill

import (
	"errors"
	"fmt"

	"github.com/taskmill/taskmill/internal/future"
)

// ErrPanic wraps panics raised by a task function. It is delivered through
// the task's handle, never re-raised in the worker that ran the task.
var ErrPanic = errors.New("task panicked")

// validateTask checks a task against the supported function shapes before it
// is wrapped and queued. A nil function or an unsupported shape is a
// submission error: the task is never queued and no handle is produced.
func validateTask[R any](task any) error {
	switch t := task.(type) {
	case func():
		if t == nil {
			return ErrNilTask
		}
	case func() error:
		if t == nil {
			return ErrNilTask
		}
	case func() R:
		if t == nil {
			return ErrNilTask
		}
	case func() (R, error):
		if t == nil {
			return ErrNilTask
		}
	default:
		return fmt.Errorf("%w: %#v", ErrInvalidTask, task)
	}
	return nil
}

// invokeTask runs the task function exactly once. A panic raised by the
// function is captured as an ErrPanic-wrapped error rather than propagated,
// so a failing task never unwinds the worker that executes it.
func invokeTask[R any](task any) (output R, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, p)
			return
		}
	}()

	switch t := task.(type) {
	case func():
		t()
	case func() error:
		err = t()
	case func() R:
		output = t()
	case func() (R, error):
		output, err = t()
	default:
		// Shapes are checked at submission; this is unreachable for tasks
		// that went through validateTask.
		panic(fmt.Sprintf("unsupported task type: %#v", task))
	}
	return
}

// wrappedTask binds a task function to the resolver of its handle. The queue
// stores the bound Run closure, so tasks of any result type travel through
// it uniformly.
type wrappedTask[R any] struct {
	task    any
	resolve future.Resolver[R]
}

func (t wrappedTask[R]) Run() {
	output, err := invokeTask[R](t.task)
	t.resolve(output, err)
}

// countingResolver decorates a handle resolver with the pool's outcome
// counters.
func countingResolver[R any](pool *Pool, resolve future.Resolver[R]) future.Resolver[R] {
	return func(output R, err error) {
		resolve(output, err)

		if err != nil {
			pool.failedTaskCount.Add(1)
		} else {
			pool.successfulTaskCount.Add(1)
		}
	}
}
