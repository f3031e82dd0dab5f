// Package pool provides a fixed-size generic worker pool fed by a shared
// FIFO queue, with one Future per submitted task.
//
// The primary type is Pool[R]: a set of worker goroutines started by New
// that repeatedly take the oldest queued task, run it, and resolve its
// Future with the task's value or error. Submit never waits for a task to
// run. Results are collected with Future.Get, Future.GetWithContext or
// Future.TryGet, in any order.
//
// # Basic Usage
//
//	p, err := pool.New[int](pool.WithWorkerCount(2))
//	if err != nil {
//	    return err
//	}
//	defer p.Shutdown()
//
//	f, err := p.Submit(func() (int, error) { return 1 + 1, nil })
//	if err != nil {
//	    return err
//	}
//	v, err := f.Get() // 2, nil
//
// # Lifecycle
//
// New returns once every worker is running. If any worker fails its init
// (CPU pinning, a WithWorkerInit hook), the workers that did start are
// stopped and New returns a *PoolInitError matching ErrPoolInit.
//
// Shutdown is drain-then-stop: submissions are refused with ErrPoolClosed,
// every task already queued still runs, and Shutdown returns when the last
// worker has exited. ShutdownNow instead resolves every still-queued task
// with ErrCancelled and only waits for the tasks already running.
//
// # Error Handling
//
// A task's error reaches its Future unchanged. A panic inside a task is
// recovered and reported as a *PanicError carrying the stack; the worker
// keeps serving the queue.
//
// # Retry Logic
//
//	p, _ := pool.New[string](
//	    pool.WithWorkerCount(4),
//	    pool.WithRetryPolicy(3, 100*time.Millisecond), // 3 attempts, 100ms initial delay
//	    pool.WithRetryIf(isTransient),
//	)
//
// Retry delays grow exponentially (100ms, 200ms, 400ms, ...) up to the cap
// set with WithBackoff. Panics are never retried.
//
// # Configuration Options
//
//   - WithWorkerCount(n): number of workers (default: GOMAXPROCS)
//   - WithPinnedWorkers(): pin each worker to its own CPU core (Linux)
//   - WithWorkerInit(fn): per-worker init, failure aborts New
//   - WithRetryPolicy, WithBackoff, WithRetryIf: retries
//   - WithRateLimit(tasksPerSecond, burst): cap task start rate
//   - WithBeforeTaskStart, WithOnTaskEnd: task hooks
//   - WithLogger(l): zap logger for lifecycle events
package pool
