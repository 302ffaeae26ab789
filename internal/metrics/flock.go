// Package metrics provides per-step flock statistics implementing sim.Metric.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/flockgrid/internal/sim"
)

// Polarization measures global velocity alignment: the norm of the mean unit
// velocity. 1 means the flock moves as one body, 0 means headings cancel.
// Stationary particles carry no heading and are skipped.
type Polarization struct {
	last float64
}

func NewPolarization() *Polarization { return &Polarization{} }

func (p *Polarization) Name() string { return "polarization" }

func (p *Polarization) Observe(f sim.Flock, _ int) {
	var sx, sy, sz float64
	count := 0
	for _, v := range f.Velocities() {
		l := float64(v.Length())
		if l == 0 {
			continue
		}
		sx += float64(v.X) / l
		sy += float64(v.Y) / l
		sz += float64(v.Z) / l
		count++
	}
	if count == 0 {
		p.last = 0
		return
	}
	p.last = math.Sqrt(sx*sx+sy*sy+sz*sz) / float64(count)
}

func (p *Polarization) Value() float64 { return p.last }
func (p *Polarization) Reset()         { p.last = 0 }

// MeanSpeed reports the mean velocity magnitude across the flock.
type MeanSpeed struct {
	last   float64
	speeds []float64
}

func NewMeanSpeed() *MeanSpeed { return &MeanSpeed{} }

func (m *MeanSpeed) Name() string { return "mean_speed" }

func (m *MeanSpeed) Observe(f sim.Flock, _ int) {
	m.speeds = m.speeds[:0]
	for _, v := range f.Velocities() {
		m.speeds = append(m.speeds, float64(v.Length()))
	}
	m.last = stat.Mean(m.speeds, nil)
}

func (m *MeanSpeed) Value() float64 { return m.last }
func (m *MeanSpeed) Reset()         { m.last = 0 }

// SpeedStdDev reports the spread of velocity magnitudes.
type SpeedStdDev struct {
	last   float64
	speeds []float64
}

func NewSpeedStdDev() *SpeedStdDev { return &SpeedStdDev{} }

func (m *SpeedStdDev) Name() string { return "speed_stddev" }

func (m *SpeedStdDev) Observe(f sim.Flock, _ int) {
	m.speeds = m.speeds[:0]
	for _, v := range f.Velocities() {
		m.speeds = append(m.speeds, float64(v.Length()))
	}
	if len(m.speeds) < 2 {
		m.last = 0
		return
	}
	m.last = stat.StdDev(m.speeds, nil)
}

func (m *SpeedStdDev) Value() float64 { return m.last }
func (m *SpeedStdDev) Reset()         { m.last = 0 }

// Spread reports the root-mean-square distance of particles from the flock
// centroid, a rough measure of how tightly the flock has condensed.
type Spread struct {
	last float64
}

func NewSpread() *Spread { return &Spread{} }

func (s *Spread) Name() string { return "spread" }

func (s *Spread) Observe(f sim.Flock, _ int) {
	pos := f.Positions()
	if len(pos) == 0 {
		s.last = 0
		return
	}

	var cx, cy, cz float64
	for _, p := range pos {
		cx += float64(p.X)
		cy += float64(p.Y)
		cz += float64(p.Z)
	}
	n := float64(len(pos))
	cx, cy, cz = cx/n, cy/n, cz/n

	sum := 0.0
	for _, p := range pos {
		dx := float64(p.X) - cx
		dy := float64(p.Y) - cy
		dz := float64(p.Z) - cz
		sum += dx*dx + dy*dy + dz*dz
	}
	s.last = math.Sqrt(sum / n)
}

func (s *Spread) Value() float64 { return s.last }
func (s *Spread) Reset()         { s.last = 0 }

// Standard returns the metric set the CLI and live view attach by default.
func Standard() []sim.Metric {
	return []sim.Metric{NewPolarization(), NewMeanSpeed(), NewSpeedStdDev(), NewSpread()}
}
