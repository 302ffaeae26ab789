package boids

// mix32 is Bob Jenkins' 6-shift integer hash. It spreads consecutive inputs
// across the full 32-bit range, so neighboring particle slots get unrelated
// starting positions.
func mix32(a uint32) uint32 {
	a = (a + 0x7ed55d16) + (a << 12)
	a = (a ^ 0xc761c23c) ^ (a >> 19)
	a = (a + 0x165667b1) + (a << 5)
	a = (a + 0xd3a2646c) ^ (a << 9)
	a = (a + 0xfd7046c5) + (a << 3)
	a = (a ^ 0xb55a4f09) ^ (a >> 16)
	return a
}

// unitRandomVec3 returns a deterministic pseudo-random vector with each
// component uniform in [-1, 1]. It is a pure function of (seed, index):
// no global generator state, so initialization is reproducible and can run
// from any worker in any order.
func unitRandomVec3(seed int64, index int) Vec3 {
	state := mix32(uint32(seed)^mix32(uint32(index)+uint32(seed>>32)))
	state %= 2147483647
	if state == 0 {
		state = 1
	}
	// Park-Miller sequence over the hashed state.
	next := func() float32 {
		state = uint32(uint64(state) * 48271 % 2147483647)
		return float32(state)/float32(2147483646)*2 - 1
	}
	return Vec3{next(), next(), next()}
}
