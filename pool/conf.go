package pool

import (
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/utkarsh5026/ogy/internal/backoff"
)

// BackoffType selects how the delay between retries grows.
type BackoffType = backoff.Type

const (
	// BackoffExponential doubles the delay on each retry (default).
	BackoffExponential = backoff.Exponential
	// BackoffJittered adds a random spread to the exponential delay.
	BackoffJittered = backoff.Jittered
)

// Option is a functional option for configuring a Pool.
type Option func(*config)

type config struct {
	workerCount int
	pinWorkers  bool
	workerInit  func(workerID int) error

	maxAttempts  int
	initialDelay time.Duration
	maxDelay     time.Duration
	backoffType  BackoffType
	jitterFactor float64
	retryIf      func(error) bool

	rateLimiter *rate.Limiter

	beforeTaskStart func(taskID int64)
	onTaskEnd       func(taskID int64, err error)

	logger *zap.Logger
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		workerCount:  max(runtime.GOMAXPROCS(0), 1),
		maxAttempts:  1,
		initialDelay: 100 * time.Millisecond,
		maxDelay:     5 * time.Second,
		backoffType:  BackoffExponential,
		jitterFactor: 0.1,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	return cfg
}

// WithWorkerCount sets the number of workers.
// If not specified, defaults to runtime.GOMAXPROCS(0). Values below 1 are ignored.
func WithWorkerCount(count int) Option {
	return func(cfg *config) {
		if count > 0 {
			cfg.workerCount = count
		}
	}
}

// WithPinnedWorkers locks every worker to an OS thread pinned to its own
// CPU core. Pinning is only available on Linux; elsewhere, or when the
// kernel refuses the affinity mask, New fails with a *PoolInitError.
func WithPinnedWorkers() Option {
	return func(cfg *config) {
		cfg.pinWorkers = true
	}
}

// WithWorkerInit registers a function each worker runs once, on its own
// goroutine, before taking any task. An error from any worker makes New
// tear the pool down and return a *PoolInitError.
func WithWorkerInit(fn func(workerID int) error) Option {
	return func(cfg *config) {
		cfg.workerInit = fn
	}
}

// WithRetryPolicy retries a failing task up to maxAttempts times in total.
// initialDelay is the wait before the first retry; later retries follow the
// configured backoff (exponential by default). If not specified, no retries
// are performed.
func WithRetryPolicy(maxAttempts int, initialDelay time.Duration) Option {
	return func(cfg *config) {
		if maxAttempts > 0 {
			cfg.maxAttempts = maxAttempts
		}

		if initialDelay > 0 {
			cfg.initialDelay = initialDelay
		}
	}
}

// WithBackoff selects the retry delay curve and its cap. jitterFactor is
// only used by BackoffJittered and is clamped to [0, 1].
func WithBackoff(t BackoffType, maxDelay time.Duration, jitterFactor float64) Option {
	return func(cfg *config) {
		cfg.backoffType = t
		if maxDelay > 0 {
			cfg.maxDelay = maxDelay
		}
		if jitterFactor >= 0 {
			cfg.jitterFactor = jitterFactor
		}
	}
}

// WithRetryIf limits retries to errors for which fn returns true.
// Without it every error is retried while attempts remain.
func WithRetryIf(fn func(error) bool) Option {
	return func(cfg *config) {
		cfg.retryIf = fn
	}
}

// WithRateLimit caps how fast workers start tasks.
// tasksPerSecond is the sustained rate and burst the number of tasks that
// may start back to back. If not specified, no rate limiting is applied.
//
// Example:
//
//	WithRateLimit(200, 20) // at most 200 lookups/sec, bursts of 20
func WithRateLimit(tasksPerSecond float64, burst int) Option {
	return func(cfg *config) {
		if tasksPerSecond > 0 && burst > 0 {
			cfg.rateLimiter = rate.NewLimiter(rate.Limit(tasksPerSecond), burst)
		}
	}
}

// WithBeforeTaskStart registers a hook called on the worker goroutine right
// before a task runs. It must be safe for concurrent use.
func WithBeforeTaskStart(fn func(taskID int64)) Option {
	return func(cfg *config) {
		cfg.beforeTaskStart = fn
	}
}

// WithOnTaskEnd registers a hook called on the worker goroutine after a
// task finished and before its Future is resolved. err is the task's final
// error, nil on success. It must be safe for concurrent use.
func WithOnTaskEnd(fn func(taskID int64, err error)) Option {
	return func(cfg *config) {
		cfg.onTaskEnd = fn
	}
}

// WithLogger sets the logger used for pool lifecycle events.
// The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(cfg *config) {
		if l != nil {
			cfg.logger = l
		}
	}
}
