package sim

import (
	"context"
	"sync"
	"time"

	"github.com/san-kum/flockgrid/internal/boids"
	"github.com/san-kum/flockgrid/internal/compute"
)

// Comparison runs the same seeded flock under several strategies and
// measures how far their states drift apart. With a grid wide enough to
// cover the rule radius, every strategy sees the same neighbor sets, so any
// divergence beyond float summation order points at a broken search.
type Comparison struct {
	n          int
	params     boids.Params
	seed       int64
	strategies []boids.Strategy
}

// ComparisonResult reports per-strategy timing and divergence against the
// first strategy (index 0 is the baseline; its divergence entries are 0).
type ComparisonResult struct {
	Strategies            []boids.Strategy
	Elapsed               []time.Duration
	MaxVelocityDivergence []float64
	MaxPositionDivergence []float64
}

func NewComparison(n int, params boids.Params, seed int64, strategies ...boids.Strategy) *Comparison {
	if len(strategies) == 0 {
		strategies = boids.Strategies
	}
	return &Comparison{n: n, params: params, seed: seed, strategies: strategies}
}

// Run advances every strategy by the same number of steps from identical
// initial state. The per-strategy runs execute concurrently; each owns its
// own simulation, so they share nothing.
func (c *Comparison) Run(ctx context.Context, dt float32, steps int) (*ComparisonResult, error) {
	if err := validateConfig(Config{Dt: dt, Steps: steps}); err != nil {
		return nil, err
	}

	flocks := make([]*boids.Simulation, len(c.strategies))
	for i, strategy := range c.strategies {
		f, err := boids.New(c.n, c.params, strategy, c.seed, compute.Default())
		if err != nil {
			return nil, err
		}
		flocks[i] = f
		defer f.Close()
	}

	result := &ComparisonResult{
		Strategies:            c.strategies,
		Elapsed:               make([]time.Duration, len(c.strategies)),
		MaxVelocityDivergence: make([]float64, len(c.strategies)),
		MaxPositionDivergence: make([]float64, len(c.strategies)),
	}

	errs := make([]error, len(c.strategies))
	var wg sync.WaitGroup
	for i := range flocks {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			start := time.Now()
			for step := 0; step < steps; step++ {
				select {
				case <-ctx.Done():
					errs[idx] = ctx.Err()
					return
				default:
				}
				if err := flocks[idx].Step(dt); err != nil {
					errs[idx] = err
					return
				}
			}
			result.Elapsed[idx] = time.Since(start)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	base := flocks[0]
	for i := 1; i < len(flocks); i++ {
		result.MaxVelocityDivergence[i] = maxDelta(base.Velocities(), flocks[i].Velocities())
		result.MaxPositionDivergence[i] = maxDelta(base.Positions(), flocks[i].Positions())
	}
	return result, nil
}

func maxDelta(a, b []boids.Vec3) float64 {
	max := 0.0
	for i := range a {
		if d := float64(a[i].Sub(b[i]).Length()); d > max {
			max = d
		}
	}
	return max
}
