package taskmill

import (
	"github.com/taskmill/taskmill/internal/future"
)

// Task is the handle for a submitted task that yields no result. If the task
// fails, the error can be retrieved.
type Task interface {

	// Done returns a channel that is closed when the task has completed or
	// failed. It never closes for a task discarded during shutdown.
	Done() <-chan struct{}

	// Wait blocks until the task has completed and returns any error that
	// occurred, including panics captured from the task function.
	Wait() error
}

// ResultTask is the handle for a submitted task that yields a result. If the
// task fails, the error can be retrieved instead.
type ResultTask[R any] interface {

	// Done returns a channel that is closed when the task has completed or
	// failed. It never closes for a task discarded during shutdown.
	Done() <-chan struct{}

	// Wait blocks until the task has completed and returns its result and
	// any error that occurred.
	Wait() (R, error)
}

type taskHandle struct {
	future *future.Future[struct{}]
}

func (h *taskHandle) Done() <-chan struct{} {
	return h.future.Done()
}

func (h *taskHandle) Wait() error {
	_, err := h.future.Wait()
	return err
}

type resultTaskHandle[R any] struct {
	future *future.Future[R]
}

func (h *resultTaskHandle[R]) Done() <-chan struct{} {
	return h.future.Done()
}

func (h *resultTaskHandle[R]) Wait() (R, error) {
	return h.future.Wait()
}
