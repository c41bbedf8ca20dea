package meshedit

import (
	"fmt"
	"math"

	"github.com/printforge/meshedit/triangulate"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// RepairOptions tunes the repair pipeline. The zero value selects the
// documented defaults with conservative non-manifold handling.
type RepairOptions struct {
	// DegenerateAreaEps is the face area below which a face is removed.
	// Defaults to 1e-10.
	DegenerateAreaEps float64
	// MergeTolerance is the coordinate tolerance for welding vertices to
	// close numerical seams. Defaults to 1e-6.
	MergeTolerance float64
	// Aggressive deletes every face touching a non-manifold edge instead
	// of only recording a diagnostic.
	Aggressive bool
	// RefillAfterAggressive runs a second hole-filling pass after
	// aggressive deletion, which can open new holes. Off by default.
	RefillAfterAggressive bool
}

func (o RepairOptions) withDefaults() RepairOptions {
	if o.DegenerateAreaEps <= 0 {
		o.DegenerateAreaEps = 1e-10
	}
	if o.MergeTolerance <= 0 {
		o.MergeTolerance = 1e-6
	}
	return o
}

// RepairReport records what each repair step did, in order.
type RepairReport struct {
	Log []string

	DegenerateRemoved   int
	DuplicatesRemoved   int
	FacesReoriented     int
	HolesFilled         int
	HolesFailed         int
	NonManifoldEdges    int
	NonManifoldRemoved  int
	UnreferencedRemoved int
	VerticesMerged      int

	Watertight bool
	Stats      Stats
}

func (r *RepairReport) logf(format string, args ...any) {
	r.Log = append(r.Log, fmt.Sprintf(format, args...))
}

// RepairAll runs the full repair pipeline: degenerate face removal,
// duplicate face removal, winding reorientation, hole filling,
// non-manifold edge handling, unreferenced vertex removal and vertex
// merging. The pipeline is a fixed linear chain; individual step
// failures are logged, never fatal. RepairAll is idempotent: a second
// run on its own output changes nothing.
func RepairAll(m *Mesh, opts RepairOptions) (*Mesh, RepairReport, error) {
	opts = opts.withDefaults()
	var rep RepairReport
	rep.Stats = newStats("repair", m)
	work := m.Clone()

	rep.DegenerateRemoved = removeDegenerateFaces(work, opts.DegenerateAreaEps)
	rep.logf("removed %d degenerate faces (area < %g)", rep.DegenerateRemoved, opts.DegenerateAreaEps)

	rep.DuplicatesRemoved = removeDuplicateFaces(work)
	rep.logf("removed %d duplicate faces", rep.DuplicatesRemoved)

	rep.FacesReoriented = reorientFaces(work)
	rep.logf("reoriented %d faces for consistent winding", rep.FacesReoriented)

	filled, failed := fillHoles(work)
	rep.HolesFilled, rep.HolesFailed = filled, failed
	rep.logf("filled %d boundary holes, %d could not be triangulated", filled, failed)

	nonManifold := nonManifoldEdges(work)
	rep.NonManifoldEdges = len(nonManifold)
	if opts.Aggressive && len(nonManifold) > 0 {
		rep.NonManifoldRemoved = removeFacesTouching(work, nonManifold)
		rep.logf("aggressive: removed %d faces touching %d non-manifold edges", rep.NonManifoldRemoved, len(nonManifold))
		if opts.RefillAfterAggressive {
			refilled, refailed := fillHoles(work)
			rep.HolesFilled += refilled
			rep.HolesFailed += refailed
			rep.logf("refill pass: filled %d holes, %d failed", refilled, refailed)
		}
	} else {
		rep.logf("detected %d non-manifold edges", len(nonManifold))
	}

	rep.UnreferencedRemoved = removeUnreferencedVertices(work)
	rep.logf("removed %d unreferenced vertices", rep.UnreferencedRemoved)

	rep.VerticesMerged = mergeVertices(work, opts.MergeTolerance)
	rep.logf("merged %d vertices within %g", rep.VerticesMerged, opts.MergeTolerance)

	rep.Watertight = work.IsWatertight()
	rep.logf("watertight: %v", rep.Watertight)
	rep.Stats.finish(work)
	return work, rep, nil
}

// MakeWatertight repairs the mesh aggressively and, if it still is not
// closed and allowConvexHull is set, replaces it with the convex hull of
// its vertices. The hull replacement is lossy and therefore opt-in.
func MakeWatertight(m *Mesh, allowConvexHull bool) (*Mesh, RepairReport, error) {
	out, rep, err := RepairAll(m, RepairOptions{Aggressive: true, RefillAfterAggressive: true})
	if err != nil {
		return nil, rep, err
	}
	if rep.Watertight || !allowConvexHull {
		return out, rep, nil
	}
	hull, err := convexHull(out.vertices)
	if err != nil {
		rep.logf("convex hull fallback failed: %v", err)
		rep.Stats.fail("mesh could not be made watertight")
		return out, rep, nil
	}
	replaced := FromTriangles(hull, 0)
	rep.logf("replaced mesh with convex hull of %d vertices (lossy)", out.VertexCount())
	rep.Watertight = replaced.IsWatertight()
	rep.Stats.finish(replaced)
	return replaced, rep, nil
}

func removeDegenerateFaces(m *Mesh, areaEps float64) int {
	kept := m.faces[:0]
	removed := 0
	for i, f := range m.faces {
		if m.Triangle(i).Area() < areaEps {
			removed++
			continue
		}
		kept = append(kept, f)
	}
	m.faces = kept
	if removed > 0 {
		m.invalidate()
	}
	return removed
}

func removeDuplicateFaces(m *Mesh) int {
	seen := make(map[[3]int]struct{}, len(m.faces))
	kept := m.faces[:0]
	removed := 0
	for _, f := range m.faces {
		key := f
		// Canonical vertex order so rotations and flips compare equal.
		if key[0] > key[1] {
			key[0], key[1] = key[1], key[0]
		}
		if key[1] > key[2] {
			key[1], key[2] = key[2], key[1]
		}
		if key[0] > key[1] {
			key[0], key[1] = key[1], key[0]
		}
		if _, dup := seen[key]; dup {
			removed++
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, f)
	}
	m.faces = kept
	if removed > 0 {
		m.invalidate()
	}
	return removed
}

// reorientFaces makes winding consistent across each connected component
// by flood-filling face adjacency, then flips whole components that face
// inward (negative signed volume). Returns the number of flipped faces.
func reorientFaces(m *Mesh) int {
	type edgeRef struct {
		face    int
		reverse bool
	}
	adj := make(map[[2]int][]edgeRef, 3*len(m.faces))
	undirected := func(a, b int) ([2]int, bool) {
		if a < b {
			return [2]int{a, b}, false
		}
		return [2]int{b, a}, true
	}
	for i, f := range m.faces {
		for j := 0; j < 3; j++ {
			key, rev := undirected(f[j], f[(j+1)%3])
			adj[key] = append(adj[key], edgeRef{face: i, reverse: rev})
		}
	}

	flipped := 0
	visited := make([]bool, len(m.faces))
	for seed := range m.faces {
		if visited[seed] {
			continue
		}
		var component []int
		queue := []int{seed}
		visited[seed] = true
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			component = append(component, cur)
			f := m.faces[cur]
			for j := 0; j < 3; j++ {
				key, curRev := undirected(f[j], f[(j+1)%3])
				refs := adj[key]
				if len(refs) != 2 {
					continue // boundary or non-manifold, no constraint
				}
				for _, ref := range refs {
					if ref.face == cur || visited[ref.face] {
						continue
					}
					// Consistent winding means the shared edge runs in
					// opposite directions in the two faces.
					if ref.reverse == curRev {
						g := m.faces[ref.face]
						m.faces[ref.face] = [3]int{g[0], g[2], g[1]}
						flipped++
						// Rebuild this face's adjacency orientation lazily:
						// reversal swaps the direction of all its edges.
						for k := 0; k < 3; k++ {
							ekey, _ := undirected(g[k], g[(k+1)%3])
							for ri := range adj[ekey] {
								if adj[ekey][ri].face == ref.face {
									adj[ekey][ri].reverse = !adj[ekey][ri].reverse
								}
							}
						}
					}
					visited[ref.face] = true
					queue = append(queue, ref.face)
				}
			}
		}
		// Orient the component outward.
		if componentSignedVolume(m, component) < 0 {
			for _, fi := range component {
				f := m.faces[fi]
				m.faces[fi] = [3]int{f[0], f[2], f[1]}
			}
			flipped += len(component)
		}
	}
	if flipped > 0 {
		m.invalidate()
	}
	return flipped
}

func componentSignedVolume(m *Mesh, faces []int) float64 {
	var vol float64
	for _, fi := range faces {
		f := m.faces[fi]
		a, b, c := m.vertices[f[0]], m.vertices[f[1]], m.vertices[f[2]]
		vol += r3.Dot(a, r3.Cross(b, c))
	}
	return vol / 6
}

// boundaryLoops returns chains of vertex indices along edges referenced
// by exactly one face.
func boundaryLoops(m *Mesh) [][]int {
	counts := make(map[[2]int]int, 3*len(m.faces))
	for _, f := range m.faces {
		for j := 0; j < 3; j++ {
			a, b := f[j], f[(j+1)%3]
			if a > b {
				a, b = b, a
			}
			counts[[2]int{a, b}]++
		}
	}
	// Directed boundary edges follow the face winding, so loops chain
	// head to tail.
	next := make(map[int]int)
	for _, f := range m.faces {
		for j := 0; j < 3; j++ {
			a, b := f[j], f[(j+1)%3]
			ua, ub := a, b
			if ua > ub {
				ua, ub = ub, ua
			}
			if counts[[2]int{ua, ub}] == 1 {
				next[b] = a // reversed: the hole loop winds against the face
			}
		}
	}
	var loops [][]int
	seen := make(map[int]bool, len(next))
	for start := range next {
		if seen[start] {
			continue
		}
		loop := []int{start}
		seen[start] = true
		cur := next[start]
		for cur != start {
			if seen[cur] {
				loop = nil // tangled boundary, skip
				break
			}
			seen[cur] = true
			loop = append(loop, cur)
			n, ok := next[cur]
			if !ok {
				loop = nil
				break
			}
			cur = n
		}
		if len(loop) >= 3 {
			loops = append(loops, loop)
		}
	}
	return loops
}

// fillHoles triangulates boundary loops and appends the resulting faces.
// Best effort: loops that cannot be triangulated are counted and skipped.
func fillHoles(m *Mesh) (filled, failed int) {
	loops := boundaryLoops(m)
	for _, loop := range loops {
		pts := make([]r3.Vec, len(loop))
		for i, vi := range loop {
			pts[i] = m.vertices[vi]
		}
		n := newellNormal(pts)
		if r3.Norm(n) == 0 {
			failed++
			continue
		}
		pl := newPlane(pts[0], n)
		u, v := pl.basis()
		flat := make([]r2.Vec, len(pts))
		for i, p := range pts {
			flat[i] = pl.project(u, v, p)
		}
		tris, err := triangulate.Polygon(flat, nil)
		if err != nil {
			if tris, err = triangulate.Fan(flat); err != nil {
				failed++
				continue
			}
		}
		// The loop runs in the winding of the missing patch, so the fill
		// triangles must agree with its Newell normal.
		for _, t := range tris {
			f := [3]int{loop[t[0]], loop[t[1]], loop[t[2]]}
			a, b, c := m.vertices[f[0]], m.vertices[f[1]], m.vertices[f[2]]
			if r3.Dot(r3.Cross(r3.Sub(b, a), r3.Sub(c, a)), n) < 0 {
				f[1], f[2] = f[2], f[1]
			}
			m.faces = append(m.faces, f)
		}
		filled++
	}
	if filled > 0 {
		m.invalidate()
	}
	return filled, failed
}

// newellNormal computes the polygon normal via Newell's method, robust
// against non-planar loops.
func newellNormal(pts []r3.Vec) r3.Vec {
	var n r3.Vec
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		n.X += (p.Y - q.Y) * (p.Z + q.Z)
		n.Y += (p.Z - q.Z) * (p.X + q.X)
		n.Z += (p.X - q.X) * (p.Y + q.Y)
	}
	return n
}

// nonManifoldEdges returns every undirected edge shared by more than two
// faces.
func nonManifoldEdges(m *Mesh) map[[2]int]int {
	counts := make(map[[2]int]int, 3*len(m.faces))
	for _, f := range m.faces {
		for j := 0; j < 3; j++ {
			a, b := f[j], f[(j+1)%3]
			if a > b {
				a, b = b, a
			}
			counts[[2]int{a, b}]++
		}
	}
	bad := make(map[[2]int]int)
	for e, c := range counts {
		if c > 2 {
			bad[e] = c
		}
	}
	return bad
}

func removeFacesTouching(m *Mesh, edges map[[2]int]int) int {
	kept := m.faces[:0]
	removed := 0
	for _, f := range m.faces {
		touches := false
		for j := 0; j < 3 && !touches; j++ {
			a, b := f[j], f[(j+1)%3]
			if a > b {
				a, b = b, a
			}
			_, touches = edges[[2]int{a, b}]
		}
		if touches {
			removed++
			continue
		}
		kept = append(kept, f)
	}
	m.faces = kept
	if removed > 0 {
		m.invalidate()
	}
	return removed
}

func removeUnreferencedVertices(m *Mesh) int {
	used := make([]bool, len(m.vertices))
	for _, f := range m.faces {
		used[f[0]], used[f[1]], used[f[2]] = true, true, true
	}
	remap := make([]int, len(m.vertices))
	kept := m.vertices[:0]
	var keptColors [][3]float64
	removed := 0
	for i, v := range m.vertices {
		if !used[i] {
			removed++
			remap[i] = -1
			continue
		}
		remap[i] = len(kept)
		kept = append(kept, v)
		if len(m.colors) != 0 {
			keptColors = append(keptColors, m.colors[i])
		}
	}
	if removed == 0 {
		return 0
	}
	m.vertices = kept
	if len(m.colors) != 0 {
		m.colors = keptColors
	}
	for i, f := range m.faces {
		m.faces[i] = [3]int{remap[f[0]], remap[f[1]], remap[f[2]]}
	}
	m.invalidate()
	return removed
}

// mergeVertices welds vertices whose coordinates agree within tol and
// drops faces collapsed by the weld. Returns the number of vertices
// eliminated.
func mergeVertices(m *Mesh, tol float64) int {
	if len(m.vertices) == 0 {
		return 0
	}
	ri := 1 / tol
	cache := make(map[[3]int64]int, len(m.vertices))
	remap := make([]int, len(m.vertices))
	kept := make([]r3.Vec, 0, len(m.vertices))
	var keptColors [][3]float64
	merged := 0
	for i, v := range m.vertices {
		key := [3]int64{
			int64(math.Round(v.X * ri)),
			int64(math.Round(v.Y * ri)),
			int64(math.Round(v.Z * ri)),
		}
		if idx, ok := cache[key]; ok {
			remap[i] = idx
			merged++
			continue
		}
		idx := len(kept)
		cache[key] = idx
		remap[i] = idx
		kept = append(kept, v)
		if len(m.colors) != 0 {
			keptColors = append(keptColors, m.colors[i])
		}
	}
	if merged == 0 {
		return 0
	}
	m.vertices = kept
	if len(m.colors) != 0 {
		m.colors = keptColors
	}
	faces := m.faces[:0]
	for _, f := range m.faces {
		g := [3]int{remap[f[0]], remap[f[1]], remap[f[2]]}
		if g[0] == g[1] || g[1] == g[2] || g[2] == g[0] {
			continue // collapsed by the weld
		}
		faces = append(faces, g)
	}
	m.faces = faces
	m.invalidate()
	return merged
}
