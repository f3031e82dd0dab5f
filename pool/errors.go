package pool

import (
	"errors"
	"fmt"
)

var (
	// ErrQueueClosed is returned by Queue.Enqueue after Close.
	ErrQueueClosed = errors.New("queue is closed")

	// ErrPoolClosed is returned by Submit once Shutdown or ShutdownNow began.
	ErrPoolClosed = errors.New("pool is closed")

	// ErrPoolInit matches every *PoolInitError.
	ErrPoolInit = errors.New("pool failed to start")

	// ErrCancelled resolves the Future of a task discarded by ShutdownNow
	// before it ran.
	ErrCancelled = errors.New("task cancelled before execution")

	// ErrNilTask is returned by Submit for a nil task.
	ErrNilTask = errors.New("task cannot be nil")

	// ErrTaskAborted resolves the Future of a task that ended its worker
	// goroutine without returning, e.g. through runtime.Goexit.
	ErrTaskAborted = errors.New("task aborted without returning")
)

// PoolInitError reports that one or more workers could not be started.
// The pool that produced it has already been torn down.
type PoolInitError struct {
	Requested int   // workers the pool tried to start
	Failed    int   // workers whose init returned an error
	Err       error // joined init errors
}

func (e *PoolInitError) Error() string {
	return fmt.Sprintf("pool failed to start: %d of %d workers failed: %v", e.Failed, e.Requested, e.Err)
}

func (e *PoolInitError) Unwrap() error { return e.Err }

func (e *PoolInitError) Is(target error) bool { return target == ErrPoolInit }

// PanicError is the failure a Future resolves with when its task panicked.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("worker panic: %v\nstack trace:\n%s", e.Value, e.Stack)
}

// Unwrap exposes the panic value when the task panicked with an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
