package pool

import "sync"

// Queue is an unbounded FIFO safe for many producers and many consumers.
//
// A single mutex guards the backing slice and the closed flag; consumers
// waiting for work are parked on a condition variable bound to the same
// mutex, so an idle consumer costs nothing until Enqueue or Close wakes it.
// The lock is only held for constant-time bookkeeping.
//
// Close is one-way. Items queued before Close are still handed out
// (drain-then-stop); Dequeue reports the end of work only once the queue is
// both closed and empty.
type Queue[T any] struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []T
	head   int
	closed bool
}

// NewQueue returns an empty, open queue.
func NewQueue[T any]() *Queue[T] {
	q := &Queue[T]{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Enqueue appends item at the tail and wakes one parked consumer.
// It never blocks on queue capacity. After Close it returns ErrQueueClosed
// and the item is not stored.
func (q *Queue[T]) Enqueue(item T) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}
	q.items = append(q.items, item)
	q.mu.Unlock()

	q.cond.Signal()
	return nil
}

// Dequeue removes and returns the head item, parking the caller while the
// queue is empty and open. The boolean is false only when the queue is
// closed and fully drained, meaning there is no more work.
func (q *Queue[T]) Dequeue() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.lenLocked() == 0 && !q.closed {
		q.cond.Wait()
	}

	if q.lenLocked() == 0 {
		var zero T
		return zero, false
	}
	return q.popLocked(), true
}

// TryDequeue is the non-blocking form of Dequeue.
func (q *Queue[T]) TryDequeue() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.lenLocked() == 0 {
		var zero T
		return zero, false
	}
	return q.popLocked(), true
}

// Close marks the queue closed and wakes every parked consumer.
// Calling it more than once is harmless.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	q.cond.Broadcast()
}

// Drain removes and returns every queued item in FIFO order.
// It does not close the queue.
func (q *Queue[T]) Drain() []T {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := q.lenLocked()
	if n == 0 {
		return nil
	}
	out := make([]T, n)
	copy(out, q.items[q.head:])
	q.reset()
	return out
}

// Len reports the number of queued items. The value is stale as soon as it
// is returned and is meant for diagnostics.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.lenLocked()
}

// IsEmpty reports whether no items are queued.
func (q *Queue[T]) IsEmpty() bool {
	return q.Len() == 0
}

// IsClosed reports whether Close has been called.
func (q *Queue[T]) IsClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

func (q *Queue[T]) lenLocked() int {
	return len(q.items) - q.head
}

// popLocked takes the head item. The vacated slot is zeroed so the queue
// does not pin finished tasks, and the slice is compacted once the dead
// prefix dominates it.
func (q *Queue[T]) popLocked() T {
	var zero T
	item := q.items[q.head]
	q.items[q.head] = zero
	q.head++

	switch {
	case q.head == len(q.items):
		q.reset()
	case q.head >= compactThreshold && q.head*2 >= len(q.items):
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}
	return item
}

func (q *Queue[T]) reset() {
	clear(q.items)
	q.items = q.items[:0]
	q.head = 0
}

const compactThreshold = 64
