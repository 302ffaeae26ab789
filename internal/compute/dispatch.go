package compute

import (
	"fmt"
	"runtime"
	"sync"
)

// LaunchError reports a fault raised inside a parallel phase. Worker panics
// are recovered into a LaunchError carrying the phase name and the index
// range the failing worker owned. There is no retry: a LaunchError means the
// simulation state can no longer be trusted.
type LaunchError struct {
	Op    string
	Start int
	End   int
	Panic any
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("compute: phase %q failed on [%d,%d): %v", e.Op, e.Start, e.End, e.Panic)
}

// Dispatcher splits index ranges across worker goroutines. Run blocks until
// all workers finish, giving callers a full barrier between phases. Workers
// never synchronize with each other inside a phase; each owns a disjoint
// index chunk.
type Dispatcher struct {
	workers  int
	minChunk int
}

// New creates a dispatcher with the given worker count. A count below one
// selects one worker per CPU.
func New(workers int) *Dispatcher {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	return &Dispatcher{workers: workers, minChunk: 64}
}

var defaultDispatcher = New(0)

// Default returns the process-wide dispatcher sized to the machine.
func Default() *Dispatcher { return defaultDispatcher }

// Workers returns the configured worker count.
func (d *Dispatcher) Workers() int { return d.workers }

// Run executes fn over [0, n) in parallel chunks. op names the phase in any
// resulting LaunchError. Small n falls back to a single serial call so tiny
// phases do not pay goroutine overhead.
func (d *Dispatcher) Run(op string, n int, fn func(start, end int)) error {
	if n <= 0 {
		return nil
	}

	workers := d.workers
	if n/d.minChunk < workers {
		workers = n / d.minChunk
	}

	if workers <= 1 {
		if e := runChunk(op, 0, n, fn); e != nil {
			return e
		}
		return nil
	}

	chunk := (n + workers - 1) / workers
	errs := make([]*LaunchError, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > n {
			end = n
		}
		go func(w, start, end int) {
			defer wg.Done()
			errs[w] = runChunk(op, start, end, fn)
		}(w, start, end)
	}
	wg.Wait()

	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

func runChunk(op string, start, end int, fn func(start, end int)) (err *LaunchError) {
	defer func() {
		if r := recover(); r != nil {
			err = &LaunchError{Op: op, Start: start, End: end, Panic: r}
		}
	}()
	if start < end {
		fn(start, end)
	}
	return nil
}
