package csg

import (
	"fmt"
	"math"

	"github.com/printforge/meshedit"
	"github.com/printforge/meshedit/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// voxelEngine rasterizes both solids onto an occupancy grid, applies
// the boolean per cell and extracts the exposed cell faces. The result
// is blocky but robust: it cannot fail on geometry the exact engines
// choke on, which is why it anchors the fallback chain.
type voxelEngine struct {
	cells int
}

// NewVoxelEngine returns the voxel-space boolean engine. cells sets the
// grid resolution along the longest axis, clamped to [48, 128]; <= 0
// selects 96.
func NewVoxelEngine(cells int) meshedit.Engine {
	if cells <= 0 {
		cells = 96
	}
	if cells < 48 {
		cells = 48
	}
	if cells > 128 {
		cells = 128
	}
	return &voxelEngine{cells: cells}
}

func (e *voxelEngine) Name() string { return "voxel" }

func (e *voxelEngine) Boolean(a, b *meshedit.Mesh, op meshedit.Op) (*meshedit.Mesh, error) {
	sa, err := NewMeshSDF(a)
	if err != nil {
		return nil, fmt.Errorf("voxel: operand a: %w", err)
	}
	sb, err := NewMeshSDF(b)
	if err != nil {
		return nil, fmt.Errorf("voxel: operand b: %w", err)
	}

	// The result of any boolean stays inside the union of the operand
	// bounds; one cell of padding keeps boundary faces closed.
	ba, bb := sa.Bounds(), sb.Bounds()
	min := d3.MinElem(ba.Min, bb.Min)
	max := d3.MaxElem(ba.Max, bb.Max)
	size := r3.Sub(max, min)
	maxExtent := math.Max(size.X, math.Max(size.Y, size.Z))
	if maxExtent == 0 {
		return nil, fmt.Errorf("voxel: degenerate operand bounds")
	}
	pitch := maxExtent / float64(e.cells)
	nx := int(math.Ceil(size.X/pitch)) + 2
	ny := int(math.Ceil(size.Y/pitch)) + 2
	nz := int(math.Ceil(size.Z/pitch)) + 2
	origin := r3.Sub(min, d3.Elem(pitch))

	grid := make([]bool, nx*ny*nz)
	at := func(i, j, k int) int { return (k*ny+j)*nx + i }
	occupied := func(i, j, k int) bool {
		if i < 0 || j < 0 || k < 0 || i >= nx || j >= ny || k >= nz {
			return false
		}
		return grid[at(i, j, k)]
	}

	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				c := r3.Add(origin, r3.Vec{
					X: (float64(i) + 0.5) * pitch,
					Y: (float64(j) + 0.5) * pitch,
					Z: (float64(k) + 0.5) * pitch,
				})
				inA := sa.Evaluate(c) < 0
				inB := sb.Evaluate(c) < 0
				var in bool
				switch op {
				case meshedit.OpUnion:
					in = inA || inB
				case meshedit.OpIntersection:
					in = inA && inB
				default:
					in = inA && !inB
				}
				grid[at(i, j, k)] = in
			}
		}
	}

	resolveDiagonals(grid, nx, ny, nz)

	// Emit the boundary between occupied and empty cells. Every exposed
	// cell face becomes two triangles wound outward, so the surface is
	// closed by construction.
	var tris []meshedit.Triangle
	corner := func(i, j, k int) r3.Vec {
		return r3.Add(origin, r3.Vec{
			X: float64(i) * pitch,
			Y: float64(j) * pitch,
			Z: float64(k) * pitch,
		})
	}
	quad := func(a, b, c, d r3.Vec) {
		tris = append(tris,
			meshedit.Triangle{V: [3]r3.Vec{a, b, c}},
			meshedit.Triangle{V: [3]r3.Vec{a, c, d}},
		)
	}
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				if !grid[at(i, j, k)] {
					continue
				}
				if !occupied(i-1, j, k) {
					quad(corner(i, j, k), corner(i, j, k+1), corner(i, j+1, k+1), corner(i, j+1, k))
				}
				if !occupied(i+1, j, k) {
					quad(corner(i+1, j, k), corner(i+1, j+1, k), corner(i+1, j+1, k+1), corner(i+1, j, k+1))
				}
				if !occupied(i, j-1, k) {
					quad(corner(i, j, k), corner(i+1, j, k), corner(i+1, j, k+1), corner(i, j, k+1))
				}
				if !occupied(i, j+1, k) {
					quad(corner(i, j+1, k), corner(i, j+1, k+1), corner(i+1, j+1, k+1), corner(i+1, j+1, k))
				}
				if !occupied(i, j, k-1) {
					quad(corner(i, j, k), corner(i, j+1, k), corner(i+1, j+1, k), corner(i+1, j, k))
				}
				if !occupied(i, j, k+1) {
					quad(corner(i, j, k+1), corner(i+1, j, k+1), corner(i+1, j+1, k+1), corner(i, j+1, k+1))
				}
			}
		}
	}
	if len(tris) == 0 {
		return nil, fmt.Errorf("voxel: %v produced an empty grid", op)
	}
	return meshedit.FromTriangles(tris, pitch*1e-6), nil
}

// resolveDiagonals fills the empty pair of every checkerboard 2x2 cell
// square. Two occupied cells touching only along a diagonal would share
// a single grid edge, and the face extraction would emit that edge four
// times, a non-manifold seam. Filling one empty cell turns the diagonal
// contact into face contact. Filling can create new checkerboards next
// door, so the sweep repeats until stable; occupancy only grows, which
// bounds the iteration.
func resolveDiagonals(grid []bool, nx, ny, nz int) {
	at := func(i, j, k int) int { return (k*ny+j)*nx + i }
	square := func(a, b, c, d int) bool {
		// a-b is one diagonal of the square, c-d the other.
		if grid[a] && grid[b] && !grid[c] && !grid[d] {
			grid[c] = true
			return true
		}
		if grid[c] && grid[d] && !grid[a] && !grid[b] {
			grid[a] = true
			return true
		}
		return false
	}
	for changed := true; changed; {
		changed = false
		for k := 0; k < nz; k++ {
			for j := 0; j < ny; j++ {
				for i := 0; i < nx; i++ {
					if i+1 < nx && j+1 < ny && square(
						at(i, j, k), at(i+1, j+1, k),
						at(i+1, j, k), at(i, j+1, k)) {
						changed = true
					}
					if i+1 < nx && k+1 < nz && square(
						at(i, j, k), at(i+1, j, k+1),
						at(i+1, j, k), at(i, j, k+1)) {
						changed = true
					}
					if j+1 < ny && k+1 < nz && square(
						at(i, j, k), at(i, j+1, k+1),
						at(i, j+1, k), at(i, j, k+1)) {
						changed = true
					}
				}
			}
		}
	}
}
