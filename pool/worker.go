package pool

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/utkarsh5026/ogy/internal/cpu"
)

// worker is the loop run by each worker goroutine. It reports the outcome
// of its init on ready exactly once, then alternates between two states:
// parked in Dequeue, or executing one task. The empty sentinel from a
// closed, drained queue ends it.
func (p *Pool[R]) worker(id int, ready chan<- error) {
	release, err := p.initWorker(id)
	if err != nil {
		ready <- fmt.Errorf("worker %d: %w", id, err)
		return
	}
	if release != nil {
		defer release()
	}

	p.live.Add(1)
	defer p.live.Add(-1)
	ready <- nil

	for {
		t, ok := p.queue.Dequeue()
		if !ok {
			p.log.Debug("worker exiting", zap.Int("worker", id))
			return
		}
		p.execute(id, t)
	}
}

// initWorker applies CPU pinning and the user init hook on the worker's
// own goroutine. A panic in the hook is reported as an init error.
func (p *Pool[R]) initWorker(id int) (release func(), err error) {
	if p.conf.pinWorkers {
		release, err = cpu.Pin(id)
		if err != nil {
			return nil, err
		}
	}

	if p.conf.workerInit != nil {
		if err := callInit(p.conf.workerInit, id); err != nil {
			if release != nil {
				release()
			}
			return nil, err
		}
	}
	return release, nil
}

func callInit(fn func(int) error, id int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("init panic: %v", r)
		}
	}()
	return fn(id)
}

// execute runs one task and resolves its Future. Nothing the task does,
// panics included, leaves this function other than through the Future.
//
// runtime.Goexit cannot be stopped: when a task (or a hook) calls it, the
// deferred cleanup settles the task with ErrTaskAborted and starts a
// replacement worker before this goroutine ends.
func (p *Pool[R]) execute(workerID int, t *submittedTask[R]) {
	var counted, completed bool
	defer func() {
		if completed {
			return
		}
		if !counted {
			p.pending.Add(-1)
		}
		var zero R
		t.future.resolve(zero, ErrTaskAborted)
		p.log.Warn("task aborted its worker", zap.Int64("task", t.id), zap.Int("worker", workerID))
		p.respawn(workerID)
	}()

	if p.conf.beforeTaskStart != nil {
		p.callHook(func() { p.conf.beforeTaskStart(t.id) })
	}

	value, err := p.process(t)
	p.pending.Add(-1)
	counted = true

	if p.conf.onTaskEnd != nil {
		p.callHook(func() { p.conf.onTaskEnd(t.id, err) })
	}

	t.future.resolve(value, err)
	completed = true
}

// respawn replaces a worker whose goroutine is ending. It is called while
// that goroutine is still counted by the group, so Shutdown cannot miss it.
func (p *Pool[R]) respawn(workerID int) {
	p.workers.Go(func() error {
		ready := make(chan error, 1)
		p.worker(workerID, ready)
		if err := <-ready; err != nil {
			p.log.Error("replacement worker failed to start", zap.Int("worker", workerID), zap.Error(err))
		}
		return nil
	})
}

// process runs the task with rate limiting and the retry policy.
// Panics are not retried.
func (p *Pool[R]) process(t *submittedTask[R]) (R, error) {
	var (
		value R
		err   error
	)
	maxAttempts := max(p.conf.maxAttempts, 1)

	for attempt := range maxAttempts {
		if attempt > 0 {
			if !p.sleep(p.backoff.Delay(attempt - 1)) {
				return value, err
			}
		}

		if p.conf.rateLimiter != nil {
			if werr := p.conf.rateLimiter.Wait(p.ctx); werr != nil {
				if attempt == 0 {
					var zero R
					return zero, ErrCancelled
				}
				return value, err
			}
		}

		value, err = processWithRecovery(t.fn)
		if err == nil {
			return value, nil
		}

		var pe *PanicError
		if errors.As(err, &pe) {
			p.log.Warn("task panicked", zap.Int64("task", t.id), zap.Any("panic", pe.Value))
			return value, err
		}
		if !p.retryable(err) {
			return value, err
		}

		if attempt < maxAttempts-1 {
			p.log.Debug("task failed, retrying",
				zap.Int64("task", t.id),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
		}
	}
	return value, err
}

func (p *Pool[R]) retryable(err error) bool {
	return p.conf.retryIf == nil || p.conf.retryIf(err)
}

// sleep waits for d, returning false if ShutdownNow interrupted it.
func (p *Pool[R]) sleep(d time.Duration) bool {
	if d <= 0 {
		return p.ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-p.ctx.Done():
		return false
	}
}

func (p *Pool[R]) callHook(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("task hook panicked", zap.Any("panic", r))
		}
	}()
	fn()
}

// processWithRecovery executes the task, converting a panic into a
// *PanicError carrying the stack of the panicking goroutine.
func processWithRecovery[R any](fn Task[R]) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			var zero R
			result = zero
			err = &PanicError{Value: r, Stack: buf[:n]}
		}
	}()

	return fn()
}
