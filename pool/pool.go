package pool

import (
	"context"
	"errors"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/utkarsh5026/ogy/internal/backoff"
)

// Pool is a fixed set of worker goroutines draining one shared FIFO Queue.
// Tasks are accepted with Submit, which returns a Future immediately.
//
// The pool is own/release: create it with New before the first submission
// and call Shutdown (or ShutdownNow) after the last result was collected.
// When either returns, no worker goroutine is left running.
//
// Type parameters:
//   - R: The result type of the submitted tasks
type Pool[R any] struct {
	conf    *config
	log     *zap.Logger
	queue   *Queue[*submittedTask[R]]
	backoff backoff.Strategy
	workers errgroup.Group

	// ctx ends on ShutdownNow; it only interrupts rate-limit and backoff waits.
	ctx    context.Context
	cancel context.CancelFunc

	closed  atomic.Bool
	pending atomic.Int64
	live    atomic.Int32
	nextID  atomic.Int64
}

// New starts a pool and returns once every worker finished its init.
//
// If any worker fails to initialise (CPU pinning refused, WithWorkerInit
// hook error), New closes the queue, waits for the workers that did start,
// and returns a *PoolInitError. It never returns a partially started pool.
//
// Default configuration:
//   - workerCount: runtime.GOMAXPROCS(0), at least 1
//   - maxAttempts: 1 (no retries)
//   - no rate limit, no pinning, no hooks, no logging
//
// Example:
//
//	p, err := pool.New[int](pool.WithWorkerCount(2))
//	if err != nil {
//	    return err
//	}
//	defer p.Shutdown()
//
//	f, _ := p.Submit(func() (int, error) { return 1 + 1, nil })
//	v, err := f.Get()
func New[R any](opts ...Option) (*Pool[R], error) {
	cfg := newConfig(opts...)
	ctx, cancel := context.WithCancel(context.Background())

	p := &Pool[R]{
		conf:    cfg,
		log:     cfg.logger,
		queue:   NewQueue[*submittedTask[R]](),
		backoff: backoff.New(cfg.backoffType, cfg.initialDelay, cfg.maxDelay, cfg.jitterFactor),
		ctx:     ctx,
		cancel:  cancel,
	}

	n := cfg.workerCount
	ready := make(chan error, n)
	for i := range n {
		p.workers.Go(func() error {
			p.worker(i, ready)
			return nil
		})
	}

	var errs []error
	for range n {
		if err := <-ready; err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		p.closed.Store(true)
		p.queue.Close()
		p.cancel()
		_ = p.workers.Wait()

		initErr := &PoolInitError{Requested: n, Failed: len(errs), Err: errors.Join(errs...)}
		p.log.Error("pool failed to start", zap.Int("workers", n), zap.Int("failed", len(errs)), zap.Error(initErr.Err))
		return nil, initErr
	}

	p.log.Debug("pool started", zap.Int("workers", n), zap.Bool("pinned", cfg.pinWorkers))
	return p, nil
}

// Submit queues task and returns its Future without waiting for it to run.
//
// Returns ErrPoolClosed once Shutdown or ShutdownNow has begun; the task
// is then not queued. Returns ErrNilTask for a nil task.
func (p *Pool[R]) Submit(task Task[R]) (*Future[R], error) {
	if task == nil {
		return nil, ErrNilTask
	}
	if p.closed.Load() {
		return nil, ErrPoolClosed
	}

	id := p.nextID.Add(1)
	st := &submittedTask[R]{
		id:     id,
		fn:     task,
		future: newFuture[R](id),
	}

	// counted before the enqueue so a fast worker never decrements first
	p.pending.Add(1)
	if err := p.queue.Enqueue(st); err != nil {
		p.pending.Add(-1)
		return nil, ErrPoolClosed
	}
	return st.future, nil
}

// Shutdown stops accepting tasks and waits for the workers to finish
// everything already queued (drain-then-stop). Safe to call more than once
// and concurrently with ShutdownNow.
func (p *Pool[R]) Shutdown() {
	if p.closed.CompareAndSwap(false, true) {
		p.log.Debug("pool shutting down", zap.Int("queued", p.queue.Len()))
	}
	p.queue.Close()
	_ = p.workers.Wait()
	p.cancel()
}

// ShutdownNow stops accepting tasks, resolves every still-queued task's
// Future with ErrCancelled without running it, and waits for the tasks
// already running to finish. Safe to call more than once and after Shutdown.
func (p *Pool[R]) ShutdownNow() {
	p.closed.Store(true)
	p.cancel()
	p.queue.Close()

	var zero R
	dropped := p.queue.Drain()
	for _, t := range dropped {
		p.pending.Add(-1)
		t.future.resolve(zero, ErrCancelled)
	}
	if len(dropped) > 0 {
		p.log.Debug("pool discarded queued tasks", zap.Int("cancelled", len(dropped)))
	}

	_ = p.workers.Wait()
}

// Pending returns the number of tasks submitted and not yet completed.
func (p *Pool[R]) Pending() int64 { return p.pending.Load() }

// Workers returns the configured worker count.
func (p *Pool[R]) Workers() int { return p.conf.workerCount }

// Live returns the number of worker goroutines still running. It is zero
// after Shutdown or ShutdownNow returns.
func (p *Pool[R]) Live() int { return int(p.live.Load()) }

// QueueLen returns the number of tasks waiting for a worker.
func (p *Pool[R]) QueueLen() int { return p.queue.Len() }

// Closed reports whether shutdown has begun.
func (p *Pool[R]) Closed() bool { return p.closed.Load() }

// Stats returns a diagnostic view of the pool.
func (p *Pool[R]) Stats() Stats {
	return Stats{
		Workers:   p.Workers(),
		Live:      p.Live(),
		Pending:   p.Pending(),
		Queued:    p.QueueLen(),
		Submitted: p.nextID.Load(),
	}
}
