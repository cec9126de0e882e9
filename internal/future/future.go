package future

import (
	"context"
	"fmt"
)

// Resolver fulfils a Future with a value or an error.
// Only the first call has any effect.
type Resolver[V any] func(value V, err error)

// A Future represents the one-shot result of a task that completes at some
// later point. It starts out pending and is fulfilled exactly once, with
// either a value or an error. Readers can block on Wait or poll Done.
//
// A Future whose task never runs stays pending forever.
type Future[V any] struct {
	ctx context.Context
}

// New creates a pending Future along with the Resolver that fulfils it.
func New[V any]() (*Future[V], Resolver[V]) {
	// Resolution is delivered as the context's cancellation cause. The
	// context is rooted at Background: nothing other than the resolver
	// can unblock a reader.
	ctx, cancel := context.WithCancelCause(context.Background())

	future := &Future[V]{
		ctx: ctx,
	}

	return future, func(value V, err error) {
		cancel(&resolution[V]{
			value: value,
			err:   err,
		})
	}
}

// Done returns a channel that is closed once the Future has been fulfilled.
func (f *Future[V]) Done() <-chan struct{} {
	return f.ctx.Done()
}

// Wait blocks until the Future is fulfilled and returns the stored value or
// the stored error.
func (f *Future[V]) Wait() (V, error) {
	<-f.ctx.Done()

	cause := context.Cause(f.ctx)
	if res, ok := cause.(*resolution[V]); ok {
		return res.value, res.err
	}

	var zero V
	return zero, cause
}

type resolution[V any] struct {
	value V
	err   error
}

func (r *resolution[V]) Error() string {
	if r.err != nil {
		return r.err.Error()
	}
	return fmt.Sprintf("future resolved: %v", r.value)
}
