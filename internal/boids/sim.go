package boids

import (
	"errors"
	"fmt"

	"github.com/san-kum/flockgrid/internal/compute"
)

// Strategy selects the neighbor-search algorithm used by Step.
type Strategy string

const (
	BruteForce    Strategy = "brute"
	ScatteredGrid Strategy = "scattered"
	CoherentGrid  Strategy = "coherent"
)

// Strategies lists every strategy in baseline-first order.
var Strategies = []Strategy{BruteForce, ScatteredGrid, CoherentGrid}

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case BruteForce, ScatteredGrid, CoherentGrid:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("boids: unknown strategy %q (want brute, scattered or coherent)", s)
}

// ErrClosed is returned by operations on a simulation after Close.
var ErrClosed = errors.New("boids: simulation closed")

// Simulation owns every buffer and derived parameter for one flock. All
// operations take the receiver explicitly; independent instances share
// nothing, so several simulations can run side by side.
type Simulation struct {
	params   Params
	strategy Strategy
	n        int
	seed     int64

	pos []Vec3

	// Ping-pong velocity buffers. During a step every particle reads the
	// "current" buffer and writes only its own slot in the "next" buffer;
	// swap flips the selector in O(1) after the step.
	vel [2][]Vec3
	cur int

	grid *grid

	// Cell-sorted copies for the coherent strategy, plus the buffer its
	// results land in before they are scattered back to slot order.
	posSorted     []Vec3
	velSorted     []Vec3
	velNextSorted []Vec3

	disp   *compute.Dispatcher
	closed bool
}

// New allocates a flock of n particles. Positions are seeded pseudo-randomly
// in [-SceneScale, SceneScale]³ from (seed, slot index); the same seed always
// reproduces the same flock. Velocities start at zero.
func New(n int, params Params, strategy Strategy, seed int64, disp *compute.Dispatcher) (*Simulation, error) {
	if n <= 0 {
		return nil, fmt.Errorf("boids: particle count must be positive, got %d", n)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if _, err := ParseStrategy(string(strategy)); err != nil {
		return nil, err
	}
	if disp == nil {
		disp = compute.Default()
	}

	s := &Simulation{
		params:   params,
		strategy: strategy,
		n:        n,
		seed:     seed,
		pos:      make([]Vec3, n),
		disp:     disp,
	}
	s.vel[0] = make([]Vec3, n)
	s.vel[1] = make([]Vec3, n)
	s.grid = newGrid(n, params)
	s.posSorted = make([]Vec3, n)
	s.velSorted = make([]Vec3, n)
	s.velNextSorted = make([]Vec3, n)

	scale := params.SceneScale
	if err := disp.Run("seed positions", n, func(start, end int) {
		for i := start; i < end; i++ {
			s.pos[i] = unitRandomVec3(seed, i).Scale(scale)
		}
	}); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Simulation) N() int             { return s.n }
func (s *Simulation) Seed() int64        { return s.seed }
func (s *Simulation) Params() Params     { return s.params }
func (s *Simulation) Strategy() Strategy { return s.strategy }

// SetStrategy switches the algorithm used by Step. Safe between steps only.
func (s *Simulation) SetStrategy(strategy Strategy) error {
	if _, err := ParseStrategy(string(strategy)); err != nil {
		return err
	}
	s.strategy = strategy
	return nil
}

// Positions returns the slot-ordered position buffer. The slice is a view
// into live simulation state; callers must not modify it or hold it across
// a Step.
func (s *Simulation) Positions() []Vec3 { return s.pos }

// Velocities returns the current velocity buffer under the same rules as
// Positions.
func (s *Simulation) Velocities() []Vec3 { return s.vel[s.cur] }

func (s *Simulation) current() []Vec3 { return s.vel[s.cur] }
func (s *Simulation) next() []Vec3    { return s.vel[s.cur^1] }

// swap flips which buffer is "current". No data moves; the roles exchange
// atomically from the driver's point of view.
func (s *Simulation) swap() { s.cur ^= 1 }

// Step advances the simulation by dt using the configured strategy.
func (s *Simulation) Step(dt float32) error {
	switch s.strategy {
	case BruteForce:
		return s.StepBruteForce(dt)
	case ScatteredGrid:
		return s.StepScatteredGrid(dt)
	case CoherentGrid:
		return s.StepCoherentGrid(dt)
	}
	return fmt.Errorf("boids: unknown strategy %q", s.strategy)
}

// StepBruteForce advances one step with all-pairs neighbor evaluation.
func (s *Simulation) StepBruteForce(dt float32) error {
	if s.closed {
		return ErrClosed
	}
	if err := s.updateVelocityBruteForce(); err != nil {
		return err
	}
	return s.finishStep(dt)
}

// StepScatteredGrid advances one step with grid-restricted neighbor search,
// reading neighbor data through the sorted permutation array.
func (s *Simulation) StepScatteredGrid(dt float32) error {
	if s.closed {
		return ErrClosed
	}
	if err := s.grid.build(s.disp, s.pos); err != nil {
		return err
	}
	if err := s.updateVelocityScattered(); err != nil {
		return err
	}
	return s.finishStep(dt)
}

// StepCoherentGrid advances one step with grid-restricted neighbor search
// over physically reordered particle data.
func (s *Simulation) StepCoherentGrid(dt float32) error {
	if s.closed {
		return ErrClosed
	}
	if err := s.grid.build(s.disp, s.pos); err != nil {
		return err
	}
	if err := s.updateVelocityCoherent(); err != nil {
		return err
	}
	return s.finishStep(dt)
}

func (s *Simulation) finishStep(dt float32) error {
	if err := s.integrate(dt); err != nil {
		return err
	}
	s.swap()
	return nil
}

// Valid reports whether every position and current velocity is finite.
func (s *Simulation) Valid() bool {
	if s.closed {
		return false
	}
	vel := s.current()
	for i := range s.pos {
		if !s.pos[i].IsValid() || !vel[i].IsValid() {
			return false
		}
	}
	return true
}

// CopyPositions writes current positions into dst as four floats per
// particle: x, y, z and a homogeneous component fixed to 1. dst must hold
// exactly 4*N values. This layout is the only state the core exposes to
// external consumers.
func (s *Simulation) CopyPositions(dst []float32) error {
	if s.closed {
		return ErrClosed
	}
	return copyVec4(dst, s.pos, s.n)
}

// CopyVelocities writes current velocities in the CopyPositions layout.
func (s *Simulation) CopyVelocities(dst []float32) error {
	if s.closed {
		return ErrClosed
	}
	return copyVec4(dst, s.current(), s.n)
}

func copyVec4(dst []float32, src []Vec3, n int) error {
	if len(dst) != 4*n {
		return fmt.Errorf("boids: readout buffer length %d, want %d", len(dst), 4*n)
	}
	for i, v := range src {
		dst[4*i+0] = v.X
		dst[4*i+1] = v.Y
		dst[4*i+2] = v.Z
		dst[4*i+3] = 1
	}
	return nil
}

// Close releases all buffers. Further operations return ErrClosed.
func (s *Simulation) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.pos = nil
	s.vel[0] = nil
	s.vel[1] = nil
	s.grid = nil
	s.posSorted = nil
	s.velSorted = nil
	s.velNextSorted = nil
}
