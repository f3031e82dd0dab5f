// Package backoff computes the delay between retries of a failed task.
package backoff

import (
	"math/rand/v2"
	"time"
)

// Type selects the delay curve.
type Type int

const (
	// Exponential doubles the delay on every retry (default).
	Exponential Type = iota
	// Jittered is Exponential with a random spread of ±jitter around each
	// step, so lookups that fail together do not retry together.
	Jittered
)

// maxShift bounds the exponent so 1<<n cannot overflow.
const maxShift = 62

// Strategy returns the delay to wait before retry number attempt,
// where attempt 0 is the first retry.
type Strategy interface {
	Delay(attempt int) time.Duration
}

// New builds the strategy for t. A non-positive maxDelay means no cap.
func New(t Type, initial, maxDelay time.Duration, jitter float64) Strategy {
	if maxDelay <= 0 {
		maxDelay = time.Duration(1<<63 - 1)
	}
	switch t {
	case Jittered:
		return jittered{initial: initial, max: maxDelay, factor: clamp(jitter, 0, 1)}
	default:
		return exponential{initial: initial, max: maxDelay}
	}
}

type exponential struct {
	initial, max time.Duration
}

func (e exponential) Delay(attempt int) time.Duration {
	return expDelay(attempt, e.initial, e.max)
}

type jittered struct {
	initial, max time.Duration
	factor       float64
}

func (j jittered) Delay(attempt int) time.Duration {
	if attempt < 0 {
		return 0
	}
	base := expDelay(attempt, j.initial, j.max)
	mult := 1.0 + (rand.Float64()*2-1)*j.factor // #nosec G404 -- jitter does not need crypto rand
	return clamp(time.Duration(float64(base)*mult), 0, j.max)
}

func expDelay(attempt int, initial, maxDelay time.Duration) time.Duration {
	if attempt < 0 || initial <= 0 {
		return 0
	}
	if attempt >= maxShift {
		return maxDelay
	}

	if initial > maxDelay>>uint(attempt) {
		return maxDelay
	}
	return time.Duration(int64(1)<<uint(attempt)) * initial
}

func clamp[N int64 | float64 | time.Duration](v, lo, hi N) N {
	return min(max(v, lo), hi)
}
