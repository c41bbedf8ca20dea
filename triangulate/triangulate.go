// Package triangulate converts 2D polygon boundaries into triangle index
// lists. It is used for closing cut boundaries, filling repaired holes and
// building the end caps of swept channel solids.
package triangulate

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// ErrDegenerate is returned for boundaries with fewer than three vertices.
var ErrDegenerate = errors.New("triangulate: polygon has fewer than 3 vertices")

type vertex struct {
	p   r2.Vec
	idx int // index into the caller's concatenated vertex list
}

// Polygon triangulates the area bounded by outer minus the given holes
// using ear clipping. Hole boundaries are bridged into the outer loop
// before clipping. The returned triangles index into the concatenation of
// outer followed by each hole in order; winding of the input loops does
// not matter. Triangles are wound counter-clockwise.
func Polygon(outer []r2.Vec, holes [][]r2.Vec) ([][3]int, error) {
	if len(outer) < 3 {
		return nil, ErrDegenerate
	}
	poly := make([]vertex, len(outer))
	for i, p := range outer {
		poly[i] = vertex{p: p, idx: i}
	}
	if signedArea(poly) < 0 {
		reverse(poly)
	}

	base := len(outer)
	for _, hole := range holes {
		if len(hole) < 3 {
			base += len(hole)
			continue
		}
		hv := make([]vertex, len(hole))
		for i, p := range hole {
			hv[i] = vertex{p: p, idx: base + i}
		}
		if signedArea(hv) > 0 {
			reverse(hv) // holes wind clockwise
		}
		poly = bridgeHole(poly, hv)
		base += len(hole)
	}

	return earClip(poly)
}

// Fan triangulates a convex (or near-convex) loop as a triangle fan
// around vertex 0. Used as the cheap fallback for boundary hole filling.
func Fan(loop []r2.Vec) ([][3]int, error) {
	if len(loop) < 3 {
		return nil, ErrDegenerate
	}
	out := make([][3]int, 0, len(loop)-2)
	for i := 1; i < len(loop)-1; i++ {
		out = append(out, [3]int{0, i, i + 1})
	}
	return out, nil
}

func signedArea(poly []vertex) float64 {
	var sum float64
	for i := range poly {
		p, q := poly[i].p, poly[(i+1)%len(poly)].p
		sum += p.X*q.Y - q.X*p.Y
	}
	return sum / 2
}

func reverse(poly []vertex) {
	for i, j := 0, len(poly)-1; i < j; i, j = i+1, j-1 {
		poly[i], poly[j] = poly[j], poly[i]
	}
}

// bridgeHole splices a clockwise hole loop into a counter-clockwise outer
// loop with a two-way bridge edge, producing a single simple polygon.
// The bridge runs from the hole's rightmost vertex to a visible outer
// vertex found by casting a ray in +X.
func bridgeHole(poly, hole []vertex) []vertex {
	// Rightmost hole vertex.
	hi := 0
	for i := range hole {
		if hole[i].p.X > hole[hi].p.X {
			hi = i
		}
	}
	hp := hole[hi].p

	// Outer vertex to bridge to: among vertices of the edge closest to
	// the ray hit, pick the one minimizing the bridge angle. A simple
	// robust variant: choose the visible vertex with the smallest
	// distance that does not cross any outer edge.
	bi := -1
	best := math.MaxFloat64
	for i := range poly {
		v := poly[i].p
		if v.X < hp.X {
			continue
		}
		d := math.Hypot(v.X-hp.X, v.Y-hp.Y)
		if d >= best {
			continue
		}
		if segmentClear(hp, v, poly) {
			best = d
			bi = i
		}
	}
	if bi < 0 {
		// No visible vertex to the right; fall back to the globally
		// nearest clear vertex.
		for i := range poly {
			v := poly[i].p
			d := math.Hypot(v.X-hp.X, v.Y-hp.Y)
			if d < best && segmentClear(hp, v, poly) {
				best = d
				bi = i
			}
		}
	}
	if bi < 0 {
		bi = 0 // give up on visibility, ear clipping will cope or fan out
	}

	// Splice: outer[0..bi], hole[hi..], hole[..hi], bi again, rest of outer.
	out := make([]vertex, 0, len(poly)+len(hole)+2)
	out = append(out, poly[:bi+1]...)
	for k := 0; k <= len(hole); k++ {
		out = append(out, hole[(hi+k)%len(hole)])
	}
	out = append(out, poly[bi:]...)
	return out
}

// segmentClear reports whether segment a-b crosses no edge of poly.
func segmentClear(a, b r2.Vec, poly []vertex) bool {
	for i := range poly {
		c := poly[i].p
		d := poly[(i+1)%len(poly)].p
		if c == a || c == b || d == a || d == b {
			continue
		}
		if segmentsIntersect(a, b, c, d) {
			return false
		}
	}
	return true
}

func segmentsIntersect(a, b, c, d r2.Vec) bool {
	d1 := cross(sub(b, a), sub(c, a))
	d2 := cross(sub(b, a), sub(d, a))
	d3 := cross(sub(d, c), sub(a, c))
	d4 := cross(sub(d, c), sub(b, c))
	return d1*d2 < 0 && d3*d4 < 0
}

func earClip(poly []vertex) ([][3]int, error) {
	if len(poly) < 3 {
		return nil, ErrDegenerate
	}
	var out [][3]int
	work := append([]vertex(nil), poly...)
	for len(work) > 3 {
		clipped := false
		n := len(work)
		for i := 0; i < n; i++ {
			prev := work[(i+n-1)%n]
			cur := work[i]
			next := work[(i+1)%n]
			if !isEar(prev, cur, next, work) {
				continue
			}
			out = append(out, [3]int{prev.idx, cur.idx, next.idx})
			work = append(work[:i], work[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			// Numerically stuck (collinear runs, touching bridges).
			// Fan out the remainder rather than failing the whole cap.
			for i := 1; i < len(work)-1; i++ {
				out = append(out, [3]int{work[0].idx, work[i].idx, work[i+1].idx})
			}
			return out, nil
		}
	}
	out = append(out, [3]int{work[0].idx, work[1].idx, work[2].idx})
	return out, nil
}

func isEar(a, b, c vertex, poly []vertex) bool {
	// Convex corner in a CCW polygon.
	if cross(sub(b.p, a.p), sub(c.p, a.p)) <= 0 {
		return false
	}
	for _, v := range poly {
		if v.idx == a.idx || v.idx == b.idx || v.idx == c.idx {
			continue
		}
		if pointInTriangle(v.p, a.p, b.p, c.p) {
			return false
		}
	}
	return true
}

func pointInTriangle(p, a, b, c r2.Vec) bool {
	d1 := cross(sub(b, a), sub(p, a))
	d2 := cross(sub(c, b), sub(p, b))
	d3 := cross(sub(a, c), sub(p, c))
	return d1 >= 0 && d2 >= 0 && d3 >= 0
}

func sub(a, b r2.Vec) r2.Vec { return r2.Vec{X: a.X - b.X, Y: a.Y - b.Y} }
func cross(a, b r2.Vec) float64 { return a.X*b.Y - a.Y*b.X }
