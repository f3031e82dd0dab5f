//go:build linux

package cpu

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

func pin(workerID int) (func(), error) {
	runtime.LockOSThread()

	var allowed unix.CPUSet
	if err := unix.SchedGetaffinity(0, &allowed); err != nil {
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("read affinity: %w", err)
	}

	core, ok := nthCPU(&allowed, workerID)
	if !ok {
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("no cpu available for worker %d", workerID)
	}

	var mask unix.CPUSet
	mask.Zero()
	mask.Set(core)

	// 0 = current thread
	if err := unix.SchedSetaffinity(0, &mask); err != nil {
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("pin worker %d to cpu %d: %w", workerID, core, err)
	}

	return func() {
		_ = unix.SchedSetaffinity(0, &allowed)
		runtime.UnlockOSThread()
	}, nil
}

// nthCPU picks the (n mod count)-th core of the set the process may run on,
// so pinning respects cpusets and container limits.
func nthCPU(set *unix.CPUSet, n int) (int, bool) {
	count := set.Count()
	if count == 0 || n < 0 {
		return 0, false
	}
	n %= count

	for core := 0; core < len(set)*64; core++ {
		if !set.IsSet(core) {
			continue
		}
		if n == 0 {
			return core, true
		}
		n--
	}
	return 0, false
}
