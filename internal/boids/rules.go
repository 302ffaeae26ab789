package boids

// ruleAccumulator gathers neighbor contributions for one particle. Every
// strategy feeds it the same way; only the neighbor set differs.
type ruleAccumulator struct {
	center  Vec3 // summed positions of cohesion neighbors
	repel   Vec3 // summed offsets away from separation neighbors
	heading Vec3 // summed velocities of alignment neighbors

	cohesionCount  int
	alignmentCount int
}

// observe folds one neighbor into the accumulator. Distance comparisons are
// strict; a particle exactly on a rule radius does not contribute. Callers
// must never pass the particle itself.
func (a *ruleAccumulator) observe(self, otherPos, otherVel Vec3, p Params) {
	d := otherPos.Sub(self).Length()
	if d < p.CohesionDistance {
		a.center = a.center.Add(otherPos)
		a.cohesionCount++
	}
	if d < p.SeparationDistance {
		a.repel = a.repel.Add(self.Sub(otherPos))
	}
	if d < p.AlignmentDistance {
		a.heading = a.heading.Add(otherVel)
		a.alignmentCount++
	}
}

// apply combines the three rule deltas with the particle's current velocity
// and clamps the result. Rules with zero neighbors contribute nothing, so an
// isolated particle keeps its velocity exactly.
func (a *ruleAccumulator) apply(self, velocity Vec3, p Params) Vec3 {
	v := velocity
	if a.cohesionCount > 0 {
		perceived := a.center.Scale(1 / float32(a.cohesionCount))
		v = v.Add(perceived.Sub(self).Scale(p.CohesionScale))
	}
	// Separation is a plain sum: more close neighbors means proportionally
	// stronger repulsion.
	v = v.Add(a.repel.Scale(p.SeparationScale))
	if a.alignmentCount > 0 {
		perceived := a.heading.Scale(1 / float32(a.alignmentCount))
		v = v.Add(perceived.Sub(velocity).Scale(p.AlignmentScale))
	}
	return clampSpeed(v, p.MaxSpeed)
}

// clampSpeed rescales v onto the maxSpeed sphere when its magnitude exceeds
// it, preserving direction.
func clampSpeed(v Vec3, maxSpeed float32) Vec3 {
	if speed := v.Length(); speed > maxSpeed {
		return v.Scale(maxSpeed / speed)
	}
	return v
}
