// Package taskmill implements a fixed-size worker pool. A pool is created
// with a set number of workers, accepts tasks from any number of goroutines
// through an unbounded FIFO queue, and hands back per-task handles that are
// fulfilled with the task's result or failure once it has run.
package taskmill

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/taskmill/taskmill/internal/future"
	"github.com/taskmill/taskmill/internal/taskqueue"
)

var (
	// ErrInvalidWorkerCount is returned by New when the worker count is
	// negative. Zero is legal: such a pool queues submissions but never
	// executes them.
	ErrInvalidWorkerCount = errors.New("worker count must not be negative")

	// ErrPoolStopped is returned when attempting to submit a task to a pool
	// that has been stopped and is no longer accepting tasks.
	ErrPoolStopped = errors.New("pool has been stopped and is no longer accepting tasks")

	// ErrNilTask is returned when submitting a nil task function.
	ErrNilTask = errors.New("task must not be nil")

	// ErrInvalidTask is returned when submitting a function whose shape is
	// not one of the supported task signatures.
	ErrInvalidTask = errors.New("unsupported task type")
)

// Pool models a fixed-size worker pool. Its worker count is set at
// construction and never changes; tasks wait in an unbounded FIFO queue
// until a worker picks them up. A Pool supports exactly one lifecycle:
// once stopped it cannot be restarted.
type Pool struct {
	// Configurable settings
	workerCount int
	logger      *zap.Logger
	limiter     *rate.Limiter

	// Task queue shared by all workers and the submission path
	queue *taskqueue.Queue[func()]

	// stopCtx is cancelled during shutdown to cut short rate-limiter waits.
	stopCtx    context.Context
	stopCancel context.CancelFunc

	workersWaitGroup sync.WaitGroup
	tasksWaitGroup   sync.WaitGroup

	// submitMutex serializes the stop transition against in-flight
	// submissions: once stop holds the write lock, no further
	// tasksWaitGroup.Add can race with its Wait.
	submitMutex sync.RWMutex
	stopOnce    sync.Once
	stopped     atomic.Bool

	// Atomic counters
	submittedTaskCount  atomic.Uint64
	successfulTaskCount atomic.Uint64
	failedTaskCount     atomic.Uint64
}

// New creates a pool with the given number of workers, all started
// immediately. The worker count must not be negative; a pool with zero
// workers accepts submissions but never runs them, and its queue grows
// without bound.
func New(workerCount int, options ...Option) (*Pool, error) {
	if workerCount < 0 {
		return nil, ErrInvalidWorkerCount
	}

	pool := &Pool{
		workerCount: workerCount,
		logger:      zap.NewNop(),
		queue:       taskqueue.New[func()](),
	}

	// Apply all options
	for _, option := range options {
		option(pool)
	}

	if pool.logger == nil {
		pool.logger = zap.NewNop()
	}

	pool.stopCtx, pool.stopCancel = context.WithCancel(context.Background())

	for i := 0; i < workerCount; i++ {
		pool.workersWaitGroup.Add(1)
		go pool.worker()
	}

	return pool, nil
}

// WorkerCount returns the fixed number of workers the pool was created with.
func (p *Pool) WorkerCount() int {
	return p.workerCount
}

// SubmittedTasks returns the total number of tasks accepted by the pool
// since it was created.
func (p *Pool) SubmittedTasks() uint64 {
	return p.submittedTaskCount.Load()
}

// WaitingTasks returns the number of tasks currently sitting in the queue,
// waiting to be picked up by a worker.
func (p *Pool) WaitingTasks() uint64 {
	return uint64(p.queue.Len())
}

// SuccessfulTasks returns the total number of handle-carrying tasks that
// completed without an error since the pool was created.
func (p *Pool) SuccessfulTasks() uint64 {
	return p.successfulTaskCount.Load()
}

// FailedTasks returns the total number of handle-carrying tasks that
// completed with an error or a captured panic since the pool was created.
func (p *Pool) FailedTasks() uint64 {
	return p.failedTaskCount.Load()
}

// CompletedTasks returns the total number of handle-carrying tasks that have
// completed either successfully or with an error since the pool was created.
func (p *Pool) CompletedTasks() uint64 {
	return p.SuccessfulTasks() + p.FailedTasks()
}

// Stopped returns true once the pool has begun shutting down and no longer
// accepts tasks.
func (p *Pool) Stopped() bool {
	return p.stopped.Load()
}

// Go sends a task to the pool without producing a handle. The task's
// outcome cannot be observed; a panic it raises is logged and suppressed by
// the executing worker.
func (p *Pool) Go(task func()) error {
	if task == nil {
		return ErrNilTask
	}
	return p.submit(task)
}

// Submit sends a task to the pool and returns a handle that is fulfilled
// when the task has run. Submit never blocks waiting for a worker; the task
// waits in the queue until one is free.
func (p *Pool) Submit(task func()) (Task, error) {
	return p.submitVoid(task)
}

// SubmitErr sends a task that can fail. The returned handle's Wait yields
// the task's error.
func (p *Pool) SubmitErr(task func() error) (Task, error) {
	return p.submitVoid(task)
}

func (p *Pool) submitVoid(task any) (Task, error) {
	if err := validateTask[struct{}](task); err != nil {
		return nil, err
	}

	taskFuture, resolve := future.New[struct{}]()

	wrapped := wrappedTask[struct{}]{
		task:    task,
		resolve: countingResolver(p, resolve),
	}

	if err := p.submit(wrapped.Run); err != nil {
		return nil, err
	}

	return &taskHandle{future: taskFuture}, nil
}

func (p *Pool) submit(run func()) error {
	p.submitMutex.RLock()
	defer p.submitMutex.RUnlock()

	if p.stopped.Load() {
		return ErrPoolStopped
	}

	p.tasksWaitGroup.Add(1)

	if err := p.queue.Push(run); err != nil {
		p.tasksWaitGroup.Done()
		return ErrPoolStopped
	}

	p.submittedTaskCount.Add(1)
	return nil
}

// Stop shuts the pool down, discarding queued tasks: tasks already picked up
// by a worker run to completion, tasks still in the queue are dropped and
// their handles stay pending forever. Callers must not Wait on a handle for
// a task submitted concurrently with shutdown. Stop blocks until every
// worker has exited. Only the first of Stop and StopAndWait decides the
// shutdown policy; later calls wait for that teardown to finish.
func (p *Pool) Stop() {
	p.stop(false)
}

// StopAndWait shuts the pool down after draining the queue: every task
// accepted before shutdown runs to completion before the workers exit.
// A pool with zero workers can never drain; use Stop for those.
func (p *Pool) StopAndWait() {
	p.stop(true)
}

func (p *Pool) stop(drainQueuedTasks bool) {
	p.stopOnce.Do(func() {
		// Mark pool as stopped; rejects new submissions from this point on.
		// Taking the write lock waits out in-flight submissions, so no
		// tasksWaitGroup.Add can race with the Wait below.
		p.submitMutex.Lock()
		p.stopped.Store(true)
		p.submitMutex.Unlock()

		if drainQueuedTasks {
			// Workers keep consuming from the still-open queue until every
			// accepted task has run.
			p.tasksWaitGroup.Wait()
		}

		// Wake every worker blocked on the queue and cut short any
		// in-progress rate-limiter wait, then join the workers.
		p.queue.Stop()

		// Tasks still queued at this point never run; release their
		// waitgroup entries so Wait cannot block on discarded work.
		for {
			if _, ok := p.queue.TryPop(); !ok {
				break
			}
			p.tasksWaitGroup.Done()
		}

		p.stopCancel()
		p.workersWaitGroup.Wait()
	})
}
