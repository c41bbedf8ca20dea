package meshedit

import (
	"math"

	"github.com/printforge/meshedit/internal/d2"
	"github.com/printforge/meshedit/triangulate"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Tool-solid builders. Carving and boring subtract these closed meshes
// from the work mesh through the boolean engine.

// prismSolid sweeps a closed 2D profile from a to b. The profile lives
// in the (u,v) frame perpendicular to the sweep direction, v aligned
// with up. The result is closed and outward-oriented.
func prismSolid(a, b r3.Vec, profile []r2.Vec, up r3.Vec) (*Mesh, error) {
	axis := r3.Sub(b, a)
	length := r3.Norm(axis)
	if length == 0 {
		return nil, invalidParamf("prism endpoints coincide")
	}
	if len(profile) < 3 {
		return nil, invalidParamf("prism profile needs at least 3 points")
	}
	t := r3.Scale(1/length, axis)
	if r3.Norm(r3.Cross(t, up)) < 1e-12 {
		up = r3.Vec{X: 1}
		if math.Abs(t.X) > 0.9 {
			up = r3.Vec{Y: 1}
		}
	}
	u := r3.Unit(r3.Cross(t, up))
	v := r3.Unit(r3.Cross(u, t))

	// CCW profile keeps the wall winding predictable.
	if d2.Area(profile) < 0 {
		rev := make([]r2.Vec, len(profile))
		for i, p := range profile {
			rev[len(profile)-1-i] = p
		}
		profile = rev
	}

	capTris, err := triangulate.Polygon(profile, nil)
	if err != nil {
		if capTris, err = triangulate.Fan(profile); err != nil {
			return nil, geomFailf("prism profile triangulation: %v", err)
		}
	}

	n := len(profile)
	place := func(origin r3.Vec, p r2.Vec) r3.Vec {
		return r3.Add(origin, r3.Add(r3.Scale(p.X, u), r3.Scale(p.Y, v)))
	}
	start := make([]r3.Vec, n)
	end := make([]r3.Vec, n)
	for i, p := range profile {
		start[i] = place(a, p)
		end[i] = place(b, p)
	}

	var tris []Triangle
	for _, ct := range capTris {
		// Start cap faces backwards along the sweep, end cap forwards.
		tris = append(tris, Triangle{V: [3]r3.Vec{start[ct[0]], start[ct[2]], start[ct[1]]}})
		tris = append(tris, Triangle{V: [3]r3.Vec{end[ct[0]], end[ct[1]], end[ct[2]]}})
	}
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		tris = append(tris,
			Triangle{V: [3]r3.Vec{start[i], start[j], end[j]}},
			Triangle{V: [3]r3.Vec{start[i], end[j], end[i]}},
		)
	}

	solid := FromTriangles(tris, 0)
	if solid.signedVolume() < 0 {
		solid.flipWinding()
	}
	return solid, nil
}

// cylinderSolid builds a closed cylinder of the given radius between a
// and b, with segments facets around the circumference.
func cylinderSolid(a, b r3.Vec, radius float64, segments int) (*Mesh, error) {
	if radius <= 0 {
		return nil, invalidParamf("cylinder radius %g must be positive", radius)
	}
	if segments < 3 {
		segments = 32
	}
	profile := make([]r2.Vec, segments)
	for i := range profile {
		ang := 2 * math.Pi * float64(i) / float64(segments)
		profile[i] = r2.Vec{X: radius * math.Cos(ang), Y: radius * math.Sin(ang)}
	}
	up := r3.Vec{Z: 1}
	t := r3.Sub(b, a)
	if r3.Norm(t) > 0 && r3.Norm(r3.Cross(r3.Unit(t), up)) < 1e-12 {
		up = r3.Vec{X: 1}
	}
	return prismSolid(a, b, profile, up)
}
