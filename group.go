package taskmill

import (
	"sync"
)

// TaskGroup represents a group of related tasks submitted to the same pool,
// waited on as a unit.
type TaskGroup struct {
	pool      *Pool
	waitGroup sync.WaitGroup
}

// Group creates a new task group bound to this pool.
func (p *Pool) Group() *TaskGroup {
	return &TaskGroup{
		pool: p,
	}
}

// Submit adds a task to this group and sends it to the pool for execution.
func (g *TaskGroup) Submit(task func()) error {
	if task == nil {
		return ErrNilTask
	}

	g.waitGroup.Add(1)

	err := g.pool.Go(func() {
		defer g.waitGroup.Done()
		task()
	})
	if err != nil {
		g.waitGroup.Done()
	}
	return err
}

// Wait blocks until every task in this group has completed.
func (g *TaskGroup) Wait() {
	g.waitGroup.Wait()
}
