package pool

import (
	"context"
	"sync"
)

// Future is the handle returned by Submit. The worker that runs the task
// resolves it exactly once; every read after that returns the same value
// and error, so it is safe to call Get from several goroutines or more
// than once.
//
// Type parameters:
//   - R: The result type of the submitted task
type Future[R any] struct {
	id    int64
	done  chan struct{}
	once  sync.Once
	value R
	err   error
}

func newFuture[R any](id int64) *Future[R] {
	return &Future[R]{
		id:   id,
		done: make(chan struct{}),
	}
}

// resolve stores the outcome and releases every waiter. Only the first
// call has any effect; it reports whether this call won.
func (f *Future[R]) resolve(value R, err error) bool {
	won := false
	f.once.Do(func() {
		f.value = value
		f.err = err
		close(f.done)
		won = true
	})
	return won
}

// ID returns the submission sequence number of the task, starting at 1.
func (f *Future[R]) ID() int64 { return f.id }

// Get blocks until the task has been resolved and returns its outcome.
//
// The error is the task's own error, a *PanicError if the task panicked,
// or ErrCancelled if ShutdownNow discarded the task before it ran.
//
// Example:
//
//	future, _ := p.Submit(func() (int, error) { return 1 + 1, nil })
//	v, err := future.Get() // 2, nil
func (f *Future[R]) Get() (R, error) {
	<-f.done
	return f.value, f.err
}

// GetWithContext is Get bounded by ctx. When ctx ends first it returns
// ctx.Err(); the task itself keeps running and its result is simply not
// observed by this call.
func (f *Future[R]) GetWithContext(ctx context.Context) (R, error) {
	// a resolved Future wins over an ended ctx
	select {
	case <-f.done:
		return f.value, f.err
	default:
	}

	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

// TryGet returns the outcome without blocking. ready is false while the
// task is still pending.
func (f *Future[R]) TryGet() (value R, err error, ready bool) {
	select {
	case <-f.done:
		return f.value, f.err, true
	default:
		var zero R
		return zero, nil, false
	}
}

// Done returns a channel closed once the Future is resolved, for use in
// select statements.
func (f *Future[R]) Done() <-chan struct{} { return f.done }

// IsReady reports whether the Future has been resolved.
func (f *Future[R]) IsReady() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}
