package boids

// updateVelocityBruteForce evaluates the three rules for every particle
// against all N-1 others. O(N²) total work; the grid strategies must agree
// with it on the neighbor set whenever the grid covers the rule radius.
func (s *Simulation) updateVelocityBruteForce() error {
	pos, vel, next := s.pos, s.current(), s.next()
	p := s.params
	return s.disp.Run("update velocity brute force", s.n, func(start, end int) {
		for i := start; i < end; i++ {
			self := pos[i]
			var acc ruleAccumulator
			for j := range pos {
				if j == i {
					continue
				}
				acc.observe(self, pos[j], vel[j], p)
			}
			next[i] = acc.apply(self, vel[i], p)
		}
	})
}
