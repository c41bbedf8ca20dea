package meshedit

import (
	"math"
	"sort"

	"github.com/printforge/meshedit/internal/d3"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

// Brush/selection queries. These are read-only spatial lookups over the
// vertex buffer; they never modify geometry.

// vertexPoint adapts a mesh vertex to the kd-tree.
type vertexPoint struct {
	P   r3.Vec
	Idx int
}

func (v *vertexPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(*vertexPoint)
	switch d {
	case 0:
		return v.P.X - q.P.X
	case 1:
		return v.P.Y - q.P.Y
	case 2:
		return v.P.Z - q.P.Z
	}
	panic("unreachable")
}

func (v *vertexPoint) Dims() int { return 3 }

func (v *vertexPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(*vertexPoint)
	return r3.Norm2(r3.Sub(v.P, q.P))
}

type vertexSet []vertexPoint

func (s vertexSet) Index(i int) kdtree.Comparable { return &s[i] }
func (s vertexSet) Len() int                      { return len(s) }
func (s vertexSet) Pivot(d kdtree.Dim) int {
	p := vertexPlane{dim: int(d), points: s}
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}
func (s vertexSet) Slice(start, end int) kdtree.Interface { return s[start:end] }

type vertexPlane struct {
	dim    int
	points vertexSet
}

func (p vertexPlane) Less(i, j int) bool {
	return p.points[i].Compare(&p.points[j], kdtree.Dim(p.dim)) < 0
}
func (p vertexPlane) Swap(i, j int) {
	p.points[i], p.points[j] = p.points[j], p.points[i]
}
func (p vertexPlane) Len() int { return len(p.points) }
func (p vertexPlane) Slice(start, end int) kdtree.SortSlicer {
	p.points = p.points[start:end]
	return p
}

func vertexTree(m *Mesh) *kdtree.Tree {
	pts := make(vertexSet, len(m.vertices))
	for i, v := range m.vertices {
		pts[i] = vertexPoint{P: v, Idx: i}
	}
	return kdtree.New(pts, true)
}

// SelectRadius returns the indices of all vertices within radius of
// center, sorted ascending.
func SelectRadius(m *Mesh, center r3.Vec, radius float64) ([]int, error) {
	if radius <= 0 {
		return nil, invalidParamf("selection radius %g must be positive", radius)
	}
	if m.VertexCount() == 0 {
		return nil, nil
	}
	tree := vertexTree(m)
	keeper := kdtree.NewDistKeeper(radius * radius)
	tree.NearestSet(keeper, &vertexPoint{P: center})
	var sel []int
	for _, c := range keeper.Heap {
		if c.Comparable == nil {
			continue
		}
		sel = append(sel, c.Comparable.(*vertexPoint).Idx)
	}
	sort.Ints(sel)
	return sel, nil
}

// SelectBox returns the indices of all vertices inside the axis-aligned
// box, sorted ascending.
func SelectBox(m *Mesh, box d3.Box) []int {
	var sel []int
	for i, v := range m.vertices {
		if box.Contains(v) {
			sel = append(sel, i)
		}
	}
	return sel
}

// SelectRay casts a ray and returns the index of the nearest hit face
// and the hit point. ok is false when the ray misses the mesh entirely.
func SelectRay(m *Mesh, origin, dir r3.Vec) (face int, hit r3.Vec, ok bool) {
	if r3.Norm(dir) == 0 {
		return 0, r3.Vec{}, false
	}
	dir = r3.Unit(dir)
	best := math.Inf(1)
	face = -1
	for i := range m.faces {
		t, good := rayTriangle(origin, dir, m.Triangle(i))
		if good && t < best {
			best = t
			face = i
		}
	}
	if face < 0 {
		return 0, r3.Vec{}, false
	}
	return face, r3.Add(origin, r3.Scale(best, dir)), true
}

// rayTriangle is the Moller-Trumbore intersection test. Returns the ray
// parameter t >= 0 when the ray hits the triangle.
func rayTriangle(origin, dir r3.Vec, tri Triangle) (float64, bool) {
	const eps = 1e-12
	e1 := r3.Sub(tri.V[1], tri.V[0])
	e2 := r3.Sub(tri.V[2], tri.V[0])
	p := r3.Cross(dir, e2)
	det := r3.Dot(e1, p)
	if math.Abs(det) < eps {
		return 0, false
	}
	inv := 1 / det
	s := r3.Sub(origin, tri.V[0])
	u := r3.Dot(s, p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := r3.Cross(s, e1)
	v := r3.Dot(dir, q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := r3.Dot(e2, q) * inv
	if t < eps {
		return 0, false
	}
	return t, true
}

// SelectFlood grows a selection from seed across the vertex adjacency
// graph. maxDistance bounds the accumulated straight-line edge length
// from the seed, a cheap geodesic proxy; zero or negative means
// unbounded.
func SelectFlood(m *Mesh, seed int, maxDistance float64) ([]int, error) {
	if seed < 0 || seed >= m.VertexCount() {
		return nil, invalidParamf("seed vertex %d out of range", seed)
	}
	adj := make(map[int][]int, m.VertexCount())
	link := func(a, b int) { adj[a] = append(adj[a], b) }
	for _, f := range m.faces {
		link(f[0], f[1])
		link(f[1], f[0])
		link(f[1], f[2])
		link(f[2], f[1])
		link(f[2], f[0])
		link(f[0], f[2])
	}
	dist := map[int]float64{seed: 0}
	queue := []int{seed}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, nb := range adj[cur] {
			d := dist[cur] + r3.Norm(r3.Sub(m.vertices[nb], m.vertices[cur]))
			if maxDistance > 0 && d > maxDistance {
				continue
			}
			if prev, seen := dist[nb]; seen && prev <= d {
				continue
			}
			dist[nb] = d
			queue = append(queue, nb)
		}
	}
	sel := make([]int, 0, len(dist))
	for i := range dist {
		sel = append(sel, i)
	}
	sort.Ints(sel)
	return sel, nil
}

// SelectionManager holds the current vertex selection and a bounded
// undo history. Selections are per-session state, never persisted with
// the mesh.
type SelectionManager struct {
	current map[int]struct{}
	history [][]int
	depth   int
}

// NewSelectionManager creates a manager with the given undo depth;
// depth <= 0 selects the default of 10.
func NewSelectionManager(depth int) *SelectionManager {
	if depth <= 0 {
		depth = 10
	}
	return &SelectionManager{current: make(map[int]struct{}), depth: depth}
}

// Current returns the selected vertex indices, sorted ascending.
func (sm *SelectionManager) Current() []int {
	out := make([]int, 0, len(sm.current))
	for i := range sm.current {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// Count returns the number of selected vertices.
func (sm *SelectionManager) Count() int { return len(sm.current) }

func (sm *SelectionManager) push() {
	sm.history = append(sm.history, sm.Current())
	if len(sm.history) > sm.depth {
		sm.history = sm.history[len(sm.history)-sm.depth:]
	}
}

// Add inserts indices into the selection.
func (sm *SelectionManager) Add(indices []int) {
	sm.push()
	for _, i := range indices {
		sm.current[i] = struct{}{}
	}
}

// Remove deletes indices from the selection.
func (sm *SelectionManager) Remove(indices []int) {
	sm.push()
	for _, i := range indices {
		delete(sm.current, i)
	}
}

// Clear empties the selection.
func (sm *SelectionManager) Clear() {
	sm.push()
	sm.current = make(map[int]struct{})
}

// Undo restores the previous selection. Returns false when the history
// is empty.
func (sm *SelectionManager) Undo() bool {
	if len(sm.history) == 0 {
		return false
	}
	prev := sm.history[len(sm.history)-1]
	sm.history = sm.history[:len(sm.history)-1]
	sm.current = make(map[int]struct{}, len(prev))
	for _, i := range prev {
		sm.current[i] = struct{}{}
	}
	return true
}
