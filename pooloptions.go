package taskmill

import (
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Option represents an option that can be passed when instantiating a pool
// to customize it.
type Option func(*Pool)

// WithLogger sets the logger used to report failures that escape a task's
// own capture, i.e. panics in the execution plumbing rather than in the
// task function. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(pool *Pool) {
		pool.logger = logger
	}
}

// WithRateLimit caps how many tasks the pool executes per second, with the
// given burst size. The limit is applied on the worker side, right before a
// dequeued task runs, so submission never blocks on it. Non-positive values
// disable the limit.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(pool *Pool) {
		if perSecond > 0 && burst > 0 {
			pool.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		}
	}
}
