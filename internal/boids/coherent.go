package boids

// updateVelocityCoherent runs the same cell-range search as the scattered
// variant over particle data physically permuted into cell-sorted order.
// The gather pass pays one extra copy per particle; in exchange the neighbor
// loop walks contiguous memory with no indirection. Results are scattered
// back through the permutation so particle identity stays in slot order.
func (s *Simulation) updateVelocityCoherent() error {
	pos, vel := s.pos, s.current()
	g := s.grid

	if err := s.disp.Run("reorder particle data", s.n, func(start, end int) {
		for i := start; i < end; i++ {
			slot := g.particleIndices[i]
			s.posSorted[i] = pos[slot]
			s.velSorted[i] = vel[slot]
		}
	}); err != nil {
		return err
	}

	p := s.params
	radius := p.neighborRadius()
	posSorted, velSorted := s.posSorted, s.velSorted

	if err := s.disp.Run("update velocity coherent", s.n, func(start, end int) {
		for i := start; i < end; i++ {
			self := posSorted[i]
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
							// The particle itself sits at sorted slot i.
							if int(k) == i {
								continue
							}
							acc.observe(self, posSorted[k], velSorted[k], p)
						}
					}
				}
			}
			s.velNextSorted[i] = acc.apply(self, velSorted[i], p)
		}
	}); err != nil {
		return err
	}

	next := s.next()
	return s.disp.Run("unsort velocity results", s.n, func(start, end int) {
		for i := start; i < end; i++ {
			next[g.particleIndices[i]] = s.velNextSorted[i]
		}
	})
}
