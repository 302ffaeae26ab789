package boids

// updateVelocityScattered restricts each particle's rule evaluation to grid
// cells overlapping a cube of the widest rule radius around it. Neighbor
// entries are dereferenced through the sorted permutation array, so memory
// accesses scatter across the position and velocity buffers.
func (s *Simulation) updateVelocityScattered() error {
	pos, vel, next := s.pos, s.current(), s.next()
	p := s.params
	g := s.grid
	radius := p.neighborRadius()

	return s.disp.Run("update velocity scattered", s.n, func(start, end int) {
		for i := start; i < end; i++ {
			self := pos[i]
			minX, minY, minZ := g.cellCoords(Vec3{self.X - radius, self.Y - radius, self.Z - radius})
			maxX, maxY, maxZ := g.cellCoords(Vec3{self.X + radius, self.Y + radius, self.Z + radius})

			var acc ruleAccumulator
			for z := minZ; z <= maxZ; z++ {
				for y := minY; y <= maxY; y++ {
					for x := minX; x <= maxX; x++ {
						cell := g.linearIndex(x, y, z)
						cs := g.cellStart[cell]
						if cs == emptyCell {
							continue
						}
						for k := cs; k < g.cellEnd[cell]; k++ {
							j := g.particleIndices[k]
							if int(j) == i {
								continue
							}
							acc.observe(self, pos[j], vel[j], p)
						}
					}
				}
			}
			next[i] = acc.apply(self, vel[i], p)
		}
	})
}
