package boids

import (
	"math"
	"testing"

	"github.com/san-kum/flockgrid/internal/compute"
)

func newTestSim(t *testing.T, n int, strategy Strategy, seed int64) *Simulation {
	t.Helper()
	s, err := New(n, DefaultParams(), strategy, seed, compute.New(4))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func maxVelocityDelta(a, b *Simulation) float64 {
	va, vb := a.Velocities(), b.Velocities()
	max := 0.0
	for i := range va {
		if d := float64(va[i].Sub(vb[i]).Length()); d > max {
			max = d
		}
	}
	return max
}

func TestStrategyEquivalence(t *testing.T) {
	const n = 50
	const seed = 42
	const steps = 3

	brute := newTestSim(t, n, BruteForce, seed)
	scattered := newTestSim(t, n, ScatteredGrid, seed)
	coherent := newTestSim(t, n, CoherentGrid, seed)

	for step := 0; step < steps; step++ {
		for _, s := range []*Simulation{brute, scattered, coherent} {
			if err := s.Step(0.2); err != nil {
				t.Fatalf("step %d (%s) failed: %v", step, s.Strategy(), err)
			}
		}
	}

	// Both grid strategies must see exactly the neighbor set the baseline
	// sees; only float summation order may differ.
	if d := maxVelocityDelta(brute, scattered); d > 1e-4 {
		t.Errorf("brute vs scattered velocity divergence %g exceeds tolerance", d)
	}
	if d := maxVelocityDelta(brute, coherent); d > 1e-4 {
		t.Errorf("brute vs coherent velocity divergence %g exceeds tolerance", d)
	}
	// Scattered and coherent walk cells and runs in the same order, so they
	// agree much more tightly.
	if d := maxVelocityDelta(scattered, coherent); d > 1e-6 {
		t.Errorf("scattered vs coherent velocity divergence %g exceeds tolerance", d)
	}
}

func TestIsolatedParticleKeepsVelocity(t *testing.T) {
	for _, strategy := range Strategies {
		t.Run(string(strategy), func(t *testing.T) {
			s := newTestSim(t, 1, strategy, 3)
			want := Vec3{0.3, -0.2, 0.1}
			s.vel[s.cur][0] = want

			if err := s.Step(0.2); err != nil {
				t.Fatalf("step failed: %v", err)
			}

			got := s.Velocities()[0]
			if got != want {
				t.Errorf("isolated particle velocity changed: got %v, want %v", got, want)
			}
		})
	}
}

func TestClampSpeed(t *testing.T) {
	tests := []struct {
		name     string
		v        Vec3
		maxSpeed float32
		clamped  bool
	}{
		{"over limit", Vec3{3, 4, 0}, 1, true},
		{"under limit", Vec3{0.1, 0.2, 0.1}, 1, false},
		{"at limit", Vec3{1, 0, 0}, 1, false},
		{"zero", Vec3{}, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := clampSpeed(tt.v, tt.maxSpeed)
			if !tt.clamped {
				if got != tt.v {
					t.Fatalf("clampSpeed(%v) = %v, want unchanged", tt.v, got)
				}
				return
			}
			if d := math.Abs(float64(got.Length() - tt.maxSpeed)); d > 1e-6 {
				t.Errorf("clamped speed %v, want %v", got.Length(), tt.maxSpeed)
			}
			// Direction preserved: unit vectors must align.
			cos := float64(got.Normalize().Dot(tt.v.Normalize()))
			if cos < 1-1e-6 {
				t.Errorf("clamp changed direction, cosine similarity %v", cos)
			}
		})
	}
}

func TestSpeedNeverExceedsMax(t *testing.T) {
	s := newTestSim(t, 200, ScatteredGrid, 9)
	p := s.Params()
	for step := 0; step < 20; step++ {
		if err := s.Step(0.2); err != nil {
			t.Fatalf("step %d failed: %v", step, err)
		}
	}
	for i, v := range s.Velocities() {
		if v.Length() > p.MaxSpeed*(1+1e-5) {
			t.Fatalf("particle %d speed %v exceeds max %v", i, v.Length(), p.MaxSpeed)
		}
	}
}

func TestDeterministicRuns(t *testing.T) {
	for _, strategy := range Strategies {
		t.Run(string(strategy), func(t *testing.T) {
			a := newTestSim(t, 100, strategy, 1234)
			b := newTestSim(t, 100, strategy, 1234)

			for step := 0; step < 5; step++ {
				if err := a.Step(0.2); err != nil {
					t.Fatalf("step failed: %v", err)
				}
				if err := b.Step(0.2); err != nil {
					t.Fatalf("step failed: %v", err)
				}
			}

			pa, pb := a.Positions(), b.Positions()
			for i := range pa {
				if pa[i] != pb[i] {
					t.Fatalf("same seed diverged at particle %d: %v vs %v", i, pa[i], pb[i])
				}
			}
		})
	}
}

func TestReadoutLayout(t *testing.T) {
	s := newTestSim(t, 10, BruteForce, 5)

	buf := make([]float32, 4*s.N())
	if err := s.CopyPositions(buf); err != nil {
		t.Fatalf("CopyPositions failed: %v", err)
	}
	for i, p := range s.Positions() {
		if buf[4*i] != p.X || buf[4*i+1] != p.Y || buf[4*i+2] != p.Z {
			t.Fatalf("particle %d readout %v, want %v", i, buf[4*i:4*i+3], p)
		}
		if buf[4*i+3] != 1 {
			t.Fatalf("particle %d homogeneous component = %v, want 1", i, buf[4*i+3])
		}
	}

	if err := s.CopyVelocities(buf); err != nil {
		t.Fatalf("CopyVelocities failed: %v", err)
	}

	if err := s.CopyPositions(make([]float32, 3)); err == nil {
		t.Error("expected error for undersized readout buffer")
	}
}

func TestNewValidation(t *testing.T) {
	badParams := DefaultParams()
	badParams.MaxSpeed = 0

	tests := []struct {
		name     string
		n        int
		params   Params
		strategy Strategy
	}{
		{"zero particles", 0, DefaultParams(), BruteForce},
		{"negative particles", -5, DefaultParams(), BruteForce},
		{"bad params", 10, badParams, BruteForce},
		{"bad strategy", 10, DefaultParams(), Strategy("warp")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.n, tt.params, tt.strategy, 1, nil); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestSeedReproducesPositions(t *testing.T) {
	a := newTestSim(t, 64, BruteForce, 77)
	b := newTestSim(t, 64, BruteForce, 77)
	c := newTestSim(t, 64, BruteForce, 78)

	pa, pb, pc := a.Positions(), b.Positions(), c.Positions()
	differs := false
	for i := range pa {
		if pa[i] != pb[i] {
			t.Fatalf("same seed produced different position at slot %d", i)
		}
		if pa[i] != pc[i] {
			differs = true
		}
	}
	if !differs {
		t.Error("different seeds produced identical flocks")
	}

	scale := a.Params().SceneScale
	for i, p := range pa {
		for _, c := range [3]float32{p.X, p.Y, p.Z} {
			if c < -scale || c > scale {
				t.Fatalf("slot %d seeded outside scene: %v", i, p)
			}
		}
	}
}

func TestClose(t *testing.T) {
	s := newTestSim(t, 10, CoherentGrid, 1)
	s.Close()

	if err := s.Step(0.2); err != ErrClosed {
		t.Errorf("Step after Close = %v, want ErrClosed", err)
	}
	if err := s.CopyPositions(make([]float32, 40)); err != ErrClosed {
		t.Errorf("CopyPositions after Close = %v, want ErrClosed", err)
	}
	if s.Valid() {
		t.Error("closed simulation reports valid state")
	}
	s.Close() // second Close is a no-op
}

func TestSetStrategy(t *testing.T) {
	s := newTestSim(t, 30, BruteForce, 2)
	if err := s.SetStrategy(CoherentGrid); err != nil {
		t.Fatalf("SetStrategy failed: %v", err)
	}
	if s.Strategy() != CoherentGrid {
		t.Errorf("Strategy() = %v, want %v", s.Strategy(), CoherentGrid)
	}
	if err := s.Step(0.2); err != nil {
		t.Fatalf("step after strategy switch failed: %v", err)
	}
	if err := s.SetStrategy(Strategy("nope")); err == nil {
		t.Error("expected error for unknown strategy")
	}
}
