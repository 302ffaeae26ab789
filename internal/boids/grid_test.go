package boids

import (
	"testing"

	"github.com/san-kum/flockgrid/internal/compute"
)

func TestSortByKey(t *testing.T) {
	keys := []int32{0, 1, 0, 3, 0, 2, 2, 0, 5, 6}
	vals := []int32{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	sortByKey(keys, vals)

	wantKeys := []int32{0, 0, 0, 0, 1, 2, 2, 3, 5, 6}
	for i, k := range keys {
		if k != wantKeys[i] {
			t.Fatalf("keys[%d] = %d, want %d (full: %v)", i, k, wantKeys[i], keys)
		}
	}

	// The multiset of values per key must survive the sort; ties may appear
	// in any relative order.
	perKey := make(map[int32]map[int32]bool)
	for i, k := range keys {
		if perKey[k] == nil {
			perKey[k] = make(map[int32]bool)
		}
		perKey[k][vals[i]] = true
	}

	wantPerKey := map[int32][]int32{
		0: {0, 2, 4, 7},
		1: {1},
		2: {5, 6},
		3: {3},
		5: {8},
		6: {9},
	}
	for k, want := range wantPerKey {
		if len(perKey[k]) != len(want) {
			t.Fatalf("key %d carries %d values, want %d", k, len(perKey[k]), len(want))
		}
		for _, v := range want {
			if !perKey[k][v] {
				t.Errorf("key %d lost value %d", k, v)
			}
		}
	}
}

func TestGridGeometry(t *testing.T) {
	g := newGrid(10, DefaultParams())

	// Widest rule distance is 5, so cells are 10 wide; a 100 half-extent
	// needs 11 cells per half-side.
	if g.cellWidth != 10 {
		t.Errorf("cellWidth = %v, want 10", g.cellWidth)
	}
	if g.sideCount != 22 {
		t.Errorf("sideCount = %v, want 22", g.sideCount)
	}
	if g.cellCount != 22*22*22 {
		t.Errorf("cellCount = %v, want %v", g.cellCount, 22*22*22)
	}
	if g.minimum.X != -110 || g.minimum.Y != -110 || g.minimum.Z != -110 {
		t.Errorf("minimum = %v, want (-110,-110,-110)", g.minimum)
	}
}

func TestLinearIndex(t *testing.T) {
	g := newGrid(1, DefaultParams())
	s := g.sideCount

	tests := []struct {
		x, y, z int32
		want    int32
	}{
		{0, 0, 0, 0},
		{1, 0, 0, 1},
		{0, 1, 0, s},
		{0, 0, 1, s * s},
		{3, 2, 1, 3 + 2*s + s*s},
	}
	for _, tt := range tests {
		if got := g.linearIndex(tt.x, tt.y, tt.z); got != tt.want {
			t.Errorf("linearIndex(%d,%d,%d) = %d, want %d", tt.x, tt.y, tt.z, got, tt.want)
		}
	}
}

func TestCellCoordsClampsOutOfRange(t *testing.T) {
	g := newGrid(1, DefaultParams())

	tests := []struct {
		name string
		pos  Vec3
	}{
		{"far negative", Vec3{-1e6, -1e6, -1e6}},
		{"far positive", Vec3{1e6, 1e6, 1e6}},
		{"mixed", Vec3{-1e6, 0, 1e6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, z := g.cellCoords(tt.pos)
			for _, c := range []int32{x, y, z} {
				if c < 0 || c >= g.sideCount {
					t.Errorf("cellCoords(%v) = (%d,%d,%d), coordinate outside [0,%d)",
						tt.pos, x, y, z, g.sideCount)
				}
			}
		})
	}
}

func TestBuildCellRanges(t *testing.T) {
	disp := compute.New(2)
	g := newGrid(4, DefaultParams())

	// Three particles in cell (0,0,0), one in cell (1,0,0). Cell width is
	// 10 and the grid minimum is -110.
	pos := []Vec3{
		{-105, -105, -105},
		{-95, -105, -105},
		{-107, -103, -109},
		{-101, -108, -102},
	}
	if err := g.build(disp, pos); err != nil {
		t.Fatalf("build failed: %v", err)
	}

	cell0 := g.linearIndex(0, 0, 0)
	cell1 := g.linearIndex(1, 0, 0)

	if g.cellStart[cell0] != 0 || g.cellEnd[cell0] != 3 {
		t.Errorf("cell 0 range [%d,%d), want [0,3)", g.cellStart[cell0], g.cellEnd[cell0])
	}
	if g.cellStart[cell1] != 3 || g.cellEnd[cell1] != 4 {
		t.Errorf("cell 1 range [%d,%d), want [3,4)", g.cellStart[cell1], g.cellEnd[cell1])
	}

	// The slots binned into cell 0 must be exactly {0, 2, 3}.
	got := map[int32]bool{}
	for k := g.cellStart[cell0]; k < g.cellEnd[cell0]; k++ {
		got[g.particleIndices[k]] = true
	}
	for _, slot := range []int32{0, 2, 3} {
		if !got[slot] {
			t.Errorf("cell 0 missing particle slot %d", slot)
		}
	}
	if g.particleIndices[3] != 1 {
		t.Errorf("cell 1 holds slot %d, want 1", g.particleIndices[3])
	}

	// Every other cell must carry the empty sentinel.
	for c := int32(0); c < g.cellCount; c++ {
		if c == cell0 || c == cell1 {
			continue
		}
		if g.cellStart[c] != emptyCell || g.cellEnd[c] != emptyCell {
			t.Fatalf("cell %d range [%d,%d), want empty sentinel", c, g.cellStart[c], g.cellEnd[c])
		}
	}
}

func TestRebuildIsIdempotent(t *testing.T) {
	disp := compute.New(4)
	n := 200
	pos := make([]Vec3, n)
	for i := range pos {
		pos[i] = unitRandomVec3(11, i).Scale(100)
	}

	g := newGrid(n, DefaultParams())
	if err := g.build(disp, pos); err != nil {
		t.Fatalf("first build failed: %v", err)
	}
	firstStart := append([]int32(nil), g.cellStart...)
	firstEnd := append([]int32(nil), g.cellEnd...)

	if err := g.build(disp, pos); err != nil {
		t.Fatalf("second build failed: %v", err)
	}

	for c := range firstStart {
		if g.cellStart[c] != firstStart[c] || g.cellEnd[c] != firstEnd[c] {
			t.Fatalf("cell %d range changed across rebuilds: [%d,%d) vs [%d,%d)",
				c, firstStart[c], firstEnd[c], g.cellStart[c], g.cellEnd[c])
		}
	}
}
