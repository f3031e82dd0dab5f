// Package cpu pins worker goroutines to CPU cores.
package cpu

import "errors"

// ErrUnsupported is returned by Pin on platforms without thread affinity.
var ErrUnsupported = errors.New("cpu pinning is not supported on this platform")

// Pin locks the calling goroutine to its OS thread and restricts that
// thread to one core, chosen as workerID modulo the CPU count.
//
// On success the returned release func must be called from the same
// goroutine when the worker exits. On failure the thread is already
// unlocked and release is nil.
func Pin(workerID int) (release func(), err error) {
	return pin(workerID)
}
