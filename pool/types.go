package pool

// Task is a unit of work: a call that produces a value or fails.
// Arguments are captured by the closure.
//
// Type parameters:
//   - R: The result type
type Task[R any] func() (R, error)

// submittedTask pairs a queued Task with the Future its worker resolves.
type submittedTask[R any] struct {
	id     int64
	fn     Task[R]
	future *Future[R]
}

// Stats is a point-in-time view of a pool, for diagnostics. The fields are
// read independently and are not a consistent snapshot.
type Stats struct {
	Workers   int   // configured worker count
	Live      int   // worker goroutines still running
	Pending   int64 // tasks submitted and not yet completed
	Queued    int   // tasks waiting for a worker
	Submitted int64 // tasks accepted since New
}
