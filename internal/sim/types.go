// Package sim orchestrates flock simulation runs: fixed-step execution with
// cancellation, metric observation and side-by-side strategy comparison.
package sim

import (
	"fmt"
	"time"
)

// Metric observes flock state once per step and reduces it to one value.
type Metric interface {
	Name() string
	Observe(f Flock, step int)
	Value() float64
	Reset()
}

// Observer receives a callback after every completed step.
type Observer interface {
	OnStep(f Flock, step int, t float64)
}

// Config controls one run.
type Config struct {
	Dt            float32
	Steps         int
	ValidateState bool
}

// Result summarizes a completed (or interrupted) run.
type Result struct {
	StepsTaken int
	Elapsed    time.Duration
	Metrics    map[string]float64
	History    map[string][]float64
}

// StepError marks a failure tied to a specific simulation step.
type StepError struct {
	Step    int
	Message string
}

func (e StepError) Error() string {
	return fmt.Sprintf("step %d: %s", e.Step, e.Message)
}
