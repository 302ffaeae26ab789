// Package compute runs the simulation's data-parallel phases on a pool of
// worker goroutines.
//
// A phase is a function applied independently to every index in [0, n):
//
//	disp := compute.Default()
//	err := disp.Run("integrate positions", n, func(start, end int) {
//		for i := start; i < end; i++ {
//			// work for particle i
//		}
//	})
//
// Run blocks until every chunk has finished, so consecutive Run calls are
// separated by a full barrier. A panic inside any worker is recovered and
// reported as a [LaunchError] naming the phase; callers treat it as fatal.
package compute
