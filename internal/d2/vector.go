package d2

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// R2 helpers used by cross-section and triangulation code.

// EqualWithin compares vectors component-wise to a tolerance.
func EqualWithin(a, b r2.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}

// Cross returns the scalar cross product (z component) of a and b.
func Cross(a, b r2.Vec) float64 {
	return a.X*b.Y - a.Y*b.X
}

// Area returns the signed area of polygon poly. Positive for
// counter-clockwise winding.
func Area(poly []r2.Vec) float64 {
	var sum float64
	for i, p := range poly {
		q := poly[(i+1)%len(poly)]
		sum += Cross(p, q)
	}
	return sum / 2
}

// Centroid returns the arithmetic mean of the polygon vertices.
func Centroid(poly []r2.Vec) r2.Vec {
	var c r2.Vec
	for _, p := range poly {
		c = r2.Add(c, p)
	}
	return r2.Scale(1/float64(len(poly)), c)
}

// InPolygon reports whether p lies inside poly using the even-odd
// crossing rule. Points on the boundary are not guaranteed either way.
func InPolygon(p r2.Vec, poly []r2.Vec) bool {
	inside := false
	n := len(poly)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := poly[i], poly[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) &&
			p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
	}
	return inside
}
