// Package boids implements a flocking simulation over N point particles.
//
// Each particle carries a position and a velocity and follows three local
// rules evaluated against nearby particles: cohesion (steer toward the
// average neighbor position), separation (push away from close neighbors)
// and alignment (steer toward the average neighbor velocity).
//
// Neighbor search is the interesting part. Three interchangeable strategies
// are provided:
//
//   - [BruteForce]: every particle checks all N-1 others. O(N²), the
//     correctness baseline.
//   - [ScatteredGrid]: particles are binned into a uniform spatial grid and
//     sorted by cell; each particle only visits cells overlapping its rule
//     radius, dereferencing neighbors through a permutation array.
//   - [CoherentGrid]: like ScatteredGrid, but positions and velocities are
//     physically reordered into cell-sorted order first, so the neighbor
//     loop reads contiguous memory with no indirection.
//
// A [Simulation] owns all buffers and parameters; independent instances
// never share state. All per-particle phases run on a [compute.Dispatcher]
// worker pool with a full barrier between phases.
package boids
