package meshedit

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// convexHull computes the convex hull of a point set with the
// incremental algorithm: seed a tetrahedron, then for every remaining
// point delete the faces it can see and stitch new faces across the
// horizon. O(n^2), adequate for the vertex counts repair works with.
func convexHull(points []r3.Vec) ([]Triangle, error) {
	if len(points) < 4 {
		return nil, geomFailf("convex hull needs at least 4 points, got %d", len(points))
	}
	eps := 1e-9 * maxPointExtent(points)
	if eps == 0 {
		eps = 1e-12
	}

	seed, err := seedTetrahedron(points, eps)
	if err != nil {
		return nil, err
	}

	type hullFace struct {
		v    [3]int
		n    r3.Vec
		d    float64
		dead bool
	}
	mkFace := func(a, b, c int) hullFace {
		n := r3.Cross(r3.Sub(points[b], points[a]), r3.Sub(points[c], points[a]))
		return hullFace{v: [3]int{a, b, c}, n: n, d: r3.Dot(n, points[a])}
	}
	centroid := r3.Scale(0.25, r3.Add(
		r3.Add(points[seed[0]], points[seed[1]]),
		r3.Add(points[seed[2]], points[seed[3]])))
	orient := func(a, b, c int) hullFace {
		f := mkFace(a, b, c)
		if r3.Dot(f.n, centroid)-f.d > 0 {
			f = mkFace(a, c, b)
		}
		return f
	}

	faces := []hullFace{
		orient(seed[0], seed[1], seed[2]),
		orient(seed[0], seed[1], seed[3]),
		orient(seed[0], seed[2], seed[3]),
		orient(seed[1], seed[2], seed[3]),
	}

	inSeed := map[int]bool{seed[0]: true, seed[1]: true, seed[2]: true, seed[3]: true}
	for pi, p := range points {
		if inSeed[pi] {
			continue
		}
		// Faces the point can see.
		var visible []int
		for fi := range faces {
			if faces[fi].dead {
				continue
			}
			if r3.Dot(faces[fi].n, p)-faces[fi].d > eps*r3.Norm(faces[fi].n) {
				visible = append(visible, fi)
			}
		}
		if len(visible) == 0 {
			continue // inside the current hull
		}
		// Horizon edges appear in exactly one visible face.
		edgeCount := make(map[[2]int]int)
		dirEdge := make(map[[2]int][2]int)
		for _, fi := range visible {
			f := faces[fi].v
			for j := 0; j < 3; j++ {
				a, b := f[j], f[(j+1)%3]
				key := [2]int{a, b}
				if a > b {
					key = [2]int{b, a}
				}
				edgeCount[key]++
				dirEdge[key] = [2]int{a, b}
			}
		}
		for _, fi := range visible {
			faces[fi].dead = true
		}
		for key, c := range edgeCount {
			if c != 1 {
				continue
			}
			e := dirEdge[key]
			// New face keeps the horizon edge direction so winding stays
			// outward.
			faces = append(faces, mkFace(e[0], e[1], pi))
		}
	}

	var tris []Triangle
	for _, f := range faces {
		if f.dead {
			continue
		}
		tris = append(tris, Triangle{V: [3]r3.Vec{points[f.v[0]], points[f.v[1]], points[f.v[2]]}})
	}
	if len(tris) < 4 {
		return nil, geomFailf("convex hull collapsed to %d faces", len(tris))
	}
	return tris, nil
}

// seedTetrahedron picks four points in general position.
func seedTetrahedron(points []r3.Vec, eps float64) ([4]int, error) {
	var seed [4]int
	seed[0] = 0
	// Farthest from point 0.
	best := -1.0
	for i, p := range points {
		if d := r3.Norm(r3.Sub(p, points[0])); d > best {
			best, seed[1] = d, i
		}
	}
	if best <= eps {
		return seed, geomFailf("all points coincide")
	}
	// Farthest from the line seed0-seed1.
	dir := r3.Unit(r3.Sub(points[seed[1]], points[seed[0]]))
	best = -1.0
	for i, p := range points {
		v := r3.Sub(p, points[seed[0]])
		d := r3.Norm(r3.Sub(v, r3.Scale(r3.Dot(v, dir), dir)))
		if d > best {
			best, seed[2] = d, i
		}
	}
	if best <= eps {
		return seed, geomFailf("all points are collinear")
	}
	// Farthest from the plane through the first three.
	n := r3.Cross(r3.Sub(points[seed[1]], points[seed[0]]), r3.Sub(points[seed[2]], points[seed[0]]))
	n = r3.Unit(n)
	best = -1.0
	for i, p := range points {
		d := math.Abs(r3.Dot(r3.Sub(p, points[seed[0]]), n))
		if d > best {
			best, seed[3] = d, i
		}
	}
	if best <= eps {
		return seed, geomFailf("all points are coplanar")
	}
	return seed, nil
}

func maxPointExtent(points []r3.Vec) float64 {
	if len(points) == 0 {
		return 0
	}
	min, max := points[0], points[0]
	for _, p := range points[1:] {
		min = r3.Vec{X: math.Min(min.X, p.X), Y: math.Min(min.Y, p.Y), Z: math.Min(min.Z, p.Z)}
		max = r3.Vec{X: math.Max(max.X, p.X), Y: math.Max(max.Y, p.Y), Z: math.Max(max.Z, p.Z)}
	}
	d := r3.Sub(max, min)
	return math.Max(d.X, math.Max(d.Y, d.Z))
}
