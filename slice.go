package meshedit

import (
	"math"

	"github.com/printforge/meshedit/internal/d2"
	"github.com/printforge/meshedit/internal/d3"
	"github.com/printforge/meshedit/triangulate"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Plane slicing primitives shared by the Cutter, the Mirror/Symmetrizer
// and the Hole Borer's cross-section sampling.

// plane is the set of points x with n·x = d, n unit length. The positive
// side is where n·x > d.
type plane struct {
	n r3.Vec
	d float64
}

func newPlane(point, normal r3.Vec) plane {
	n := r3.Unit(normal)
	return plane{n: n, d: r3.Dot(n, point)}
}

func axisPlane(axis Axis, position float64) plane {
	n := axis.Vec()
	return plane{n: n, d: position}
}

func (p plane) flip() plane { return plane{n: r3.Scale(-1, p.n), d: -p.d} }

// dist returns the signed distance of v to the plane.
func (p plane) dist(v r3.Vec) float64 { return r3.Dot(p.n, v) - p.d }

// basis returns two orthonormal in-plane direction vectors.
func (p plane) basis() (u, v r3.Vec) {
	ref := r3.Vec{X: 1}
	if math.Abs(p.n.X) > 0.9 {
		ref = r3.Vec{Y: 1}
	}
	u = r3.Unit(r3.Cross(p.n, ref))
	v = r3.Cross(p.n, u)
	return u, v
}

// project maps a 3D point to in-plane 2D coordinates.
func (p plane) project(u, v, pt r3.Vec) r2.Vec {
	origin := r3.Scale(p.d, p.n)
	rel := r3.Sub(pt, origin)
	return r2.Vec{X: r3.Dot(rel, u), Y: r3.Dot(rel, v)}
}

// unproject maps in-plane 2D coordinates back to 3D.
func (p plane) unproject(u, v r3.Vec, q r2.Vec) r3.Vec {
	origin := r3.Scale(p.d, p.n)
	return r3.Add(origin, r3.Add(r3.Scale(q.X, u), r3.Scale(q.Y, v)))
}

// splitTriangle divides t across pl. Triangles entirely on one side are
// returned whole; crossing triangles are split into three, and the chord
// where the triangle meets the plane is reported for cap construction.
func splitTriangle(t Triangle, pl plane) (neg, pos []Triangle, chord [2]r3.Vec, hasChord bool) {
	var signs [3]bool
	for i, v := range t.V {
		signs[i] = pl.dist(v) >= 0
	}
	if signs[0] == signs[1] && signs[1] == signs[2] {
		if signs[0] {
			return nil, []Triangle{t}, chord, false
		}
		return []Triangle{t}, nil, chord, false
	}

	trueCount := 0
	for _, s := range signs {
		if s {
			trueCount++
		}
	}
	majority := trueCount == 2

	// The edges between the majority pair and the minority vertex cross
	// the plane. Walk the edges collecting the two loops either side.
	majLoop := make([]r3.Vec, 0, 4)
	minLoop := make([]r3.Vec, 0, 3)
	var crossings []r3.Vec
	for i, v := range t.V {
		next := t.V[(i+1)%3]
		if signs[i] == signs[(i+1)%3] {
			majLoop = append(majLoop, v)
			continue
		}
		dir := r3.Sub(next, v)
		alpha := -pl.dist(v) / r3.Dot(pl.n, dir)
		// Rounding error can push the intersection outside the edge; in
		// that case the triangle is effectively on one side.
		if alpha <= 0 || alpha >= 1 {
			onPos := signs[(i+1)%3]
			if alpha >= 1 {
				onPos = signs[i]
			}
			if onPos {
				return nil, []Triangle{t}, chord, false
			}
			return []Triangle{t}, nil, chord, false
		}
		mid := r3.Add(v, r3.Scale(alpha, dir))
		if signs[i] == majority {
			majLoop = append(majLoop, v)
		} else {
			minLoop = append(minLoop, v)
		}
		majLoop = append(majLoop, mid)
		minLoop = append(minLoop, mid)
		crossings = append(crossings, mid)
	}

	majTris := []Triangle{
		{V: [3]r3.Vec{majLoop[0], majLoop[1], majLoop[3]}},
		{V: [3]r3.Vec{majLoop[1], majLoop[2], majLoop[3]}},
	}
	minTris := []Triangle{
		{V: [3]r3.Vec{minLoop[0], minLoop[1], minLoop[2]}},
	}
	chord = [2]r3.Vec{crossings[0], crossings[1]}
	if majority {
		return minTris, majTris, chord, true
	}
	return majTris, minTris, chord, true
}

// sliceMesh returns the triangles of m on the positive side of pl,
// splitting crossing faces, together with the chord segments lying on the
// plane.
func sliceMesh(m *Mesh, pl plane) (kept []Triangle, chords [][2]r3.Vec) {
	for i := 0; i < m.FaceCount(); i++ {
		_, pos, chord, has := splitTriangle(m.Triangle(i), pl)
		kept = append(kept, pos...)
		if has {
			chords = append(chords, chord)
		}
	}
	return kept, chords
}

// chainLoops links chord segments into closed loops by matching endpoints
// on a tol-sized grid. Open chains are dropped; slicing a closed surface
// only produces closed loops up to numerical noise.
func chainLoops(segs [][2]r3.Vec, tol float64) [][]r3.Vec {
	if len(segs) == 0 {
		return nil
	}
	if tol <= 0 {
		tol = 1e-9
	}
	ri := 1 / tol
	key := func(v r3.Vec) [3]int64 {
		return [3]int64{
			int64(math.Round(v.X * ri)),
			int64(math.Round(v.Y * ri)),
			int64(math.Round(v.Z * ri)),
		}
	}
	type end struct {
		seg   int
		which int // 0 or 1
	}
	ends := make(map[[3]int64][]end, 2*len(segs))
	for i, s := range segs {
		ends[key(s[0])] = append(ends[key(s[0])], end{i, 0})
		ends[key(s[1])] = append(ends[key(s[1])], end{i, 1})
	}

	used := make([]bool, len(segs))
	var loops [][]r3.Vec
	for start := range segs {
		if used[start] {
			continue
		}
		used[start] = true
		loop := []r3.Vec{segs[start][0], segs[start][1]}
		startKey := key(segs[start][0])
		cur := key(segs[start][1])
		closed := false
		for !closed {
			var found bool
			for _, e := range ends[cur] {
				if used[e.seg] {
					continue
				}
				used[e.seg] = true
				next := segs[e.seg][1-e.which]
				cur = key(next)
				if cur == startKey {
					closed = true
				} else {
					loop = append(loop, next)
				}
				found = true
				break
			}
			if !found {
				break // open chain, dropped
			}
		}
		if closed && len(loop) >= 3 {
			loops = append(loops, loop)
		}
	}
	return loops
}

// crossSection intersects m with pl and returns the closed loops of the
// resulting planar section, each as an ordered point ring.
func crossSection(m *Mesh, pl plane) [][]r3.Vec {
	var chords [][2]r3.Vec
	for i := 0; i < m.FaceCount(); i++ {
		_, _, chord, has := splitTriangle(m.Triangle(i), pl)
		if has {
			chords = append(chords, chord)
		}
	}
	tol := 1e-9 * math.Max(1, d3.Max(m.Extents()))
	return chainLoops(chords, tol)
}

// CrossSection slices the mesh with the plane perpendicular to axis at
// position and returns the closed 2D section loops as ordered 3D point
// rings lying on the plane.
func CrossSection(m *Mesh, axis Axis, position float64) ([][]r3.Vec, error) {
	if !axis.valid() {
		return nil, invalidParamf("axis %v", axis)
	}
	return crossSection(m, axisPlane(axis, position)), nil
}

// capLoops triangulates the boundary loops of a cut and returns cap
// triangles whose outward normal is -pl.n, closing the positive-side
// half-mesh. Nested loops become holes of their enclosing loop.
func capLoops(pl plane, loops [][]r3.Vec) ([]Triangle, error) {
	if len(loops) == 0 {
		return nil, nil
	}
	u, v := pl.basis()
	flat := make([][]r2.Vec, len(loops))
	for i, loop := range loops {
		flat[i] = make([]r2.Vec, len(loop))
		for j, pt := range loop {
			flat[i][j] = pl.project(u, v, pt)
		}
	}

	// Nesting depth by point containment: even depth loops are outers,
	// odd depth loops are holes of their immediate enclosing outer.
	depth := make([]int, len(loops))
	parent := make([]int, len(loops))
	for i := range flat {
		parent[i] = -1
		best := math.MaxFloat64
		for j := range flat {
			if i == j {
				continue
			}
			if d2.InPolygon(flat[i][0], flat[j]) {
				depth[i]++
				if a := math.Abs(d2.Area(flat[j])); a < best {
					best = a
					parent[i] = j
				}
			}
		}
	}

	var caps []Triangle
	for i := range flat {
		if depth[i]%2 != 0 {
			continue // hole, triangulated with its parent
		}
		var holes [][]r2.Vec
		var holes3 [][]r3.Vec
		for j := range flat {
			if parent[j] == i && depth[j] == depth[i]+1 {
				holes = append(holes, flat[j])
				holes3 = append(holes3, loops[j])
			}
		}
		verts3 := append([][]r3.Vec{loops[i]}, holes3...)
		tris, err := triangulate.Polygon(flat[i], holes)
		if err != nil {
			return nil, geomFailf("cap triangulation: %v", err)
		}
		// Triangle indices refer to the concatenated outer+holes vertex
		// list; flatten the 3D rings the same way.
		var all3 []r3.Vec
		for k := range verts3 {
			all3 = append(all3, verts3[k]...)
		}
		for _, t := range tris {
			tri := Triangle{V: [3]r3.Vec{all3[t[0]], all3[t[1]], all3[t[2]]}}
			// Orient the cap against the slicing normal.
			if r3.Dot(tri.Normal(), pl.n) > 0 {
				tri.V[1], tri.V[2] = tri.V[2], tri.V[1]
			}
			caps = append(caps, tri)
		}
	}
	return caps, nil
}
