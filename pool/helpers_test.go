package pool_test

import (
	"testing"
	"time"

	"github.com/utkarsh5026/ogy/pool"
)

// newTestPool starts a pool and registers its shutdown with the test.
func newTestPool[R any](t *testing.T, opts ...pool.Option) *pool.Pool[R] {
	t.Helper()

	p, err := pool.New[R](opts...)
	if err != nil {
		t.Fatalf("failed to start pool: %v", err)
	}
	t.Cleanup(p.Shutdown)
	return p
}

// getWithin waits for f to resolve, failing the test after timeout.
func getWithin[R any](t *testing.T, f *pool.Future[R], timeout time.Duration) (R, error) {
	t.Helper()

	select {
	case <-f.Done():
		return f.Get()
	case <-time.After(timeout):
		t.Fatalf("future %d not resolved within %v", f.ID(), timeout)
	}
	panic("unreachable")
}

// waitUntil polls cond until it holds or timeout passes.
func waitUntil(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not satisfied before timeout")
}

// gate is a task body that blocks until released, used to hold workers busy.
type gate struct {
	started chan struct{}
	release chan struct{}
}

func newGate(n int) *gate {
	return &gate{
		started: make(chan struct{}, n),
		release: make(chan struct{}),
	}
}

func (g *gate) task(v int) pool.Task[int] {
	return func() (int, error) {
		g.started <- struct{}{}
		<-g.release
		return v, nil
	}
}

func (g *gate) waitStarted(t *testing.T, n int) {
	t.Helper()
	for range n {
		select {
		case <-g.started:
		case <-time.After(time.Second):
			t.Fatal("gated task did not start")
		}
	}
}
