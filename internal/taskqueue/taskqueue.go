// Package taskqueue provides the unbounded FIFO queue that connects task
// submission to the pool's workers.
package taskqueue

import (
	"errors"
	"sync"
)

var ErrStopped = errors.New("task queue has been stopped")

const (
	initialChunkCapacity = 32
	maxChunkCapacity     = 1024
)

// chunk is a fixed-capacity segment of the queue. Chunks form a linked list
// that grows at the tail as elements are pushed; each chunk is written and
// read front to back exactly once and then dropped.
type chunk[T any] struct {
	items []T
	read  int
	next  *chunk[T]
}

func newChunk[T any](capacity int) *chunk[T] {
	return &chunk[T]{
		items: make([]T, 0, capacity),
	}
}

// Queue is an unbounded multi-producer, multi-consumer FIFO with a blocking
// Pop and a stop signal. All mutation happens under a single mutex; blocked
// consumers park on channels instead of a condition variable.
//
// Elements are dequeued in exactly the order they were pushed, and each
// element is handed to exactly one consumer.
type Queue[T any] struct {
	mu     sync.Mutex
	head   *chunk[T]
	tail   *chunk[T]
	length int

	// wake carries at most one pending signal. A consumer that pops an
	// element while more remain re-arms it, so a single buffered slot is
	// enough for any number of parked consumers.
	wake chan struct{}

	// stop is closed exactly once when the queue is stopped.
	stop     chan struct{}
	stopOnce sync.Once
	stopped  bool
}

func New[T any]() *Queue[T] {
	first := newChunk[T](initialChunkCapacity)

	return &Queue[T]{
		head: first,
		tail: first,
		wake: make(chan struct{}, 1),
		stop: make(chan struct{}),
	}
}

// Push appends an element to the tail of the queue and wakes one parked
// consumer. It never blocks beyond mutex contention. After Stop it fails
// with ErrStopped.
func (q *Queue[T]) Push(value T) error {
	q.mu.Lock()

	if q.stopped {
		q.mu.Unlock()
		return ErrStopped
	}

	tail := q.tail
	if len(tail.items) == cap(tail.items) {
		next := newChunk[T](grownCapacity(cap(tail.items)))
		tail.next = next
		q.tail = next
		tail = next
	}

	tail.items = append(tail.items, value)
	q.length++

	q.mu.Unlock()

	q.signal()
	return nil
}

// Pop removes and returns the head of the queue, blocking while the queue is
// empty. It returns false once the queue has been stopped; the stop signal
// takes precedence over remaining elements, so a stopped queue yields no
// further elements through Pop even if it is non-empty. Use TryPop to drain
// leftovers after Stop.
func (q *Queue[T]) Pop() (T, bool) {
	var zero T

	for {
		select {
		case <-q.stop:
			return zero, false
		default:
		}

		q.mu.Lock()
		if q.stopped {
			q.mu.Unlock()
			return zero, false
		}
		value, ok := q.popLocked()
		more := q.length > 0
		q.mu.Unlock()

		if ok {
			if more {
				// Pass the wakeup on to the next parked consumer.
				q.signal()
			}
			return value, true
		}

		select {
		case <-q.wake:
		case <-q.stop:
			return zero, false
		}
	}
}

// TryPop removes and returns the head of the queue without blocking. Unlike
// Pop it keeps returning elements after Stop, which is how elements left
// behind by a stopped queue are reclaimed.
func (q *Queue[T]) TryPop() (T, bool) {
	q.mu.Lock()
	value, ok := q.popLocked()
	q.mu.Unlock()

	return value, ok
}

// Len returns the number of elements currently waiting in the queue.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.length
}

// Stop marks the queue as stopped and wakes every parked consumer. Pushes
// and blocking Pops fail from this point on. Stop is idempotent.
func (q *Queue[T]) Stop() {
	q.stopOnce.Do(func() {
		q.mu.Lock()
		q.stopped = true
		q.mu.Unlock()

		close(q.stop)
	})
}

// Stopped reports whether Stop has been called.
func (q *Queue[T]) Stopped() bool {
	select {
	case <-q.stop:
		return true
	default:
		return false
	}
}

func (q *Queue[T]) popLocked() (T, bool) {
	var zero T

	for {
		head := q.head
		if head.read < len(head.items) {
			value := head.items[head.read]
			head.items[head.read] = zero
			head.read++
			q.length--
			return value, true
		}

		if head.next == nil {
			return zero, false
		}

		// Head chunk exhausted, move to the next one.
		q.head = head.next
	}
}

func (q *Queue[T]) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func grownCapacity(capacity int) int {
	if capacity >= maxChunkCapacity {
		return maxChunkCapacity
	}
	return capacity * 2
}
