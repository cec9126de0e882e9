package taskmill

import (
	"runtime/debug"

	"go.uber.org/zap"
)

// worker is the loop run by each worker goroutine: block on the queue, run
// the task, repeat until the queue reports shutdown.
func (p *Pool) worker() {
	defer p.workersWaitGroup.Done()

	for {
		task, ok := p.queue.Pop()
		if !ok {
			// Shutdown observed, exit
			return
		}

		if p.limiter != nil {
			// Shutdown cuts the wait short; the task was already dequeued
			// and still runs to completion.
			_ = p.limiter.Wait(p.stopCtx)
		}

		p.runTask(task)
	}
}

// runTask executes one dequeued task. Task functions capture their own
// panics into their handles, so anything recovered here escaped the
// execution plumbing itself; it is logged and suppressed so the worker
// survives and moves on to the next task.
func (p *Pool) runTask(task func()) {
	defer p.tasksWaitGroup.Done()
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("recovered from panic in worker",
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
		}
	}()

	task()
}
