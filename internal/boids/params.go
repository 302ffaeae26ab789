package boids

import "fmt"

// Default rule constants. Distances are radii in world units; scales weight
// each rule's contribution to the velocity delta of one step.
const (
	DefaultCohesionDistance   = 5.0
	DefaultSeparationDistance = 3.0
	DefaultAlignmentDistance  = 5.0

	DefaultCohesionScale   = 0.01
	DefaultSeparationScale = 0.1
	DefaultAlignmentScale  = 0.1

	DefaultMaxSpeed   = 1.0
	DefaultSceneScale = 100.0
)

// Params holds the flocking rule constants and the half-extent of the cubic
// simulation space. The space spans [-SceneScale, SceneScale] on every axis
// and wraps around toroidally.
type Params struct {
	CohesionDistance   float32
	SeparationDistance float32
	AlignmentDistance  float32

	CohesionScale   float32
	SeparationScale float32
	AlignmentScale  float32

	MaxSpeed   float32
	SceneScale float32
}

func DefaultParams() Params {
	return Params{
		CohesionDistance:   DefaultCohesionDistance,
		SeparationDistance: DefaultSeparationDistance,
		AlignmentDistance:  DefaultAlignmentDistance,
		CohesionScale:      DefaultCohesionScale,
		SeparationScale:    DefaultSeparationScale,
		AlignmentScale:     DefaultAlignmentScale,
		MaxSpeed:           DefaultMaxSpeed,
		SceneScale:         DefaultSceneScale,
	}
}

func (p Params) Validate() error {
	if p.CohesionDistance <= 0 || p.SeparationDistance <= 0 || p.AlignmentDistance <= 0 {
		return fmt.Errorf("boids: rule distances must be positive, got %v/%v/%v",
			p.CohesionDistance, p.SeparationDistance, p.AlignmentDistance)
	}
	if p.CohesionScale < 0 || p.SeparationScale < 0 || p.AlignmentScale < 0 {
		return fmt.Errorf("boids: rule scales must not be negative, got %v/%v/%v",
			p.CohesionScale, p.SeparationScale, p.AlignmentScale)
	}
	if p.MaxSpeed <= 0 {
		return fmt.Errorf("boids: max speed must be positive, got %v", p.MaxSpeed)
	}
	if p.SceneScale <= 0 {
		return fmt.Errorf("boids: scene scale must be positive, got %v", p.SceneScale)
	}
	return nil
}

// neighborRadius is the widest rule distance; the grid search box around a
// particle must cover it.
func (p Params) neighborRadius() float32 {
	r := p.CohesionDistance
	if p.SeparationDistance > r {
		r = p.SeparationDistance
	}
	if p.AlignmentDistance > r {
		r = p.AlignmentDistance
	}
	return r
}
