package boids

import (
	"sort"

	"github.com/san-kum/flockgrid/internal/compute"
)

// emptyCell marks a cell with no particles in the range tables. The reset
// phase writes it everywhere before each rebuild so stale ranges from the
// previous step can never be misread.
const emptyCell = -1

// grid is the uniform spatial partition used by the two grid strategies.
// Cells are cubes of width twice the widest rule distance, so a particle's
// whole neighborhood fits inside one ring of cells around its own. Geometry
// is derived once at construction and never changes; the index arrays and
// range tables are rebuilt from scratch every step.
type grid struct {
	sideCount        int32
	cellCount        int32
	cellWidth        float32
	inverseCellWidth float32
	minimum          Vec3

	// Parallel arrays sorted jointly by cell each step: position k in sorted
	// order holds cell cellIndices[k] containing particle slot
	// particleIndices[k].
	particleIndices []int32
	cellIndices     []int32

	// Half-open [start,end) offsets into the sorted arrays, one pair per
	// cell, or emptyCell for cells with no particles.
	cellStart []int32
	cellEnd   []int32
}

func newGrid(n int, p Params) *grid {
	width := 2 * p.neighborRadius()
	halfSide := int32(p.SceneScale/width) + 1
	side := 2 * halfSide
	g := &grid{
		sideCount:        side,
		cellCount:        side * side * side,
		cellWidth:        width,
		inverseCellWidth: 1 / width,
	}
	min := -width * float32(halfSide)
	g.minimum = Vec3{min, min, min}

	g.particleIndices = make([]int32, n)
	g.cellIndices = make([]int32, n)
	g.cellStart = make([]int32, g.cellCount)
	g.cellEnd = make([]int32, g.cellCount)
	return g
}

// cellCoords maps a position to integer cell coordinates, clamped to the
// grid bounds. Out-of-range positions land in a boundary cell instead of
// corrupting a neighboring row.
func (g *grid) cellCoords(p Vec3) (x, y, z int32) {
	x = clampCell(int32((p.X-g.minimum.X)*g.inverseCellWidth), g.sideCount)
	y = clampCell(int32((p.Y-g.minimum.Y)*g.inverseCellWidth), g.sideCount)
	z = clampCell(int32((p.Z-g.minimum.Z)*g.inverseCellWidth), g.sideCount)
	return
}

func clampCell(c, side int32) int32 {
	if c < 0 {
		return 0
	}
	if c >= side {
		return side - 1
	}
	return c
}

// linearIndex flattens cell coordinates with x varying fastest.
func (g *grid) linearIndex(x, y, z int32) int32 {
	return x + y*g.sideCount + z*g.sideCount*g.sideCount
}

// build labels every particle with its cell, sorts the (cell, slot) pairs by
// cell and rebuilds the per-cell ranges. Membership changes every step, so
// there is no incremental path.
func (g *grid) build(disp *compute.Dispatcher, pos []Vec3) error {
	n := len(pos)

	if err := disp.Run("label cells", n, func(start, end int) {
		for i := start; i < end; i++ {
			x, y, z := g.cellCoords(pos[i])
			g.particleIndices[i] = int32(i)
			g.cellIndices[i] = g.linearIndex(x, y, z)
		}
	}); err != nil {
		return err
	}

	// Ties (same cell) may land in any order; nothing downstream depends on
	// sort stability.
	sortByKey(g.cellIndices, g.particleIndices)

	if err := disp.Run("reset cell ranges", int(g.cellCount), func(start, end int) {
		for c := start; c < end; c++ {
			g.cellStart[c] = emptyCell
			g.cellEnd[c] = emptyCell
		}
	}); err != nil {
		return err
	}

	// Each sorted position compares its cell with its predecessor; a change
	// of value closes one run and opens the next.
	return disp.Run("compute cell ranges", n, func(start, end int) {
		for i := start; i < end; i++ {
			cell := g.cellIndices[i]
			if i == 0 || g.cellIndices[i-1] != cell {
				g.cellStart[cell] = int32(i)
			}
			if i == n-1 || g.cellIndices[i+1] != cell {
				g.cellEnd[cell] = int32(i + 1)
			}
		}
	})
}

// sortByKey jointly sorts keys and vals by key.
func sortByKey(keys, vals []int32) {
	sort.Sort(&keyValues{keys: keys, vals: vals})
}

type keyValues struct {
	keys, vals []int32
}

func (s *keyValues) Len() int           { return len(s.keys) }
func (s *keyValues) Less(i, j int) bool { return s.keys[i] < s.keys[j] }
func (s *keyValues) Swap(i, j int) {
	s.keys[i], s.keys[j] = s.keys[j], s.keys[i]
	s.vals[i], s.vals[j] = s.vals[j], s.vals[i]
}
