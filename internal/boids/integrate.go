package boids

import "math"

// integrate advances every position by its freshly computed "next" velocity
// and wraps coordinates onto [-SceneScale, SceneScale]. The space is a
// 3-torus: crossing a boundary carries the overflow to the far side rather
// than clamping or reflecting.
func (s *Simulation) integrate(dt float32) error {
	pos, next := s.pos, s.next()
	scale := s.params.SceneScale
	return s.disp.Run("integrate positions", s.n, func(start, end int) {
		for i := start; i < end; i++ {
			p := pos[i].Add(next[i].Scale(dt))
			p.X = wrapCoord(p.X, scale)
			p.Y = wrapCoord(p.Y, scale)
			p.Z = wrapCoord(p.Z, scale)
			pos[i] = p
		}
	})
}

// wrapCoord maps x onto [-scale, scale) preserving the overflow remainder.
func wrapCoord(x, scale float32) float32 {
	span := 2 * scale
	x = float32(math.Mod(float64(x+scale), float64(span)))
	if x < 0 {
		x += span
	}
	return x - scale
}
