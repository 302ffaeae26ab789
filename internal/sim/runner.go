package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/flockgrid/internal/boids"
)

// Flock is the simulation surface the runner drives. *boids.Simulation
// satisfies it.
type Flock interface {
	N() int
	Step(dt float32) error
	Valid() bool
	Positions() []boids.Vec3
	Velocities() []boids.Vec3
}

// Runner executes a fixed number of steps against one flock, checking for
// cancellation between steps and feeding registered metrics and observers.
type Runner struct {
	flock     Flock
	metrics   []Metric
	observers []Observer
}

func NewRunner(flock Flock) *Runner {
	return &Runner{flock: flock}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	result := &Result{
		Metrics: make(map[string]float64),
		History: make(map[string][]float64),
	}

	start := time.Now()
	for step := 0; step < cfg.Steps; step++ {
		select {
		case <-ctx.Done():
			result.Elapsed = time.Since(start)
			return result, ctx.Err()
		default:
		}

		if err := r.flock.Step(cfg.Dt); err != nil {
			result.Elapsed = time.Since(start)
			return result, fmt.Errorf("sim: %w", err)
		}

		if cfg.ValidateState && !r.flock.Valid() {
			result.Elapsed = time.Since(start)
			return result, StepError{Step: step, Message: "invalid state (NaN/Inf)"}
		}

		for _, m := range r.metrics {
			m.Observe(r.flock, step)
			result.History[m.Name()] = append(result.History[m.Name()], m.Value())
		}
		for _, o := range r.observers {
			o.OnStep(r.flock, step, float64(step+1)*float64(cfg.Dt))
		}
		result.StepsTaken++
	}
	result.Elapsed = time.Since(start)

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("sim: dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Steps <= 0 {
		return fmt.Errorf("sim: step count must be positive, got %d", cfg.Steps)
	}
	return nil
}
