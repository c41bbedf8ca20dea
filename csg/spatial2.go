package csg

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Planar closest-feature search used by the mesh SDF. The feature the
// closest point lies on decides which pseudo-normal signs the distance,
// so the classification matters as much as the point itself.

type triangleFeature int

const (
	featureV0 triangleFeature = iota
	featureV1
	featureV2
	featureE0
	featureE1
	featureE2
	featureFace
)

// closestOnTriangle2 returns the point of tri closest to p and which
// feature (vertex, edge or face interior) it lies on. Edge e runs from
// vertex e to vertex (e+1)%3.
func closestOnTriangle2(p r2.Vec, tri [3]r2.Vec) (r2.Vec, triangleFeature) {
	if inTriangle2(p, tri) {
		return p, featureFace
	}
	best := math.MaxFloat64
	var onTriangle r2.Vec
	var feature triangleFeature
	for e := range tri {
		q, feat := clampToEdge(p, tri[e], tri[(e+1)%3], e)
		if d2 := r2.Norm2(r2.Sub(p, q)); d2 < best {
			best = d2
			onTriangle = q
			feature = feat
		}
	}
	return onTriangle, feature
}

// clampToEdge projects p onto the line through a and b and clamps the
// parameter to the segment. A clamped endpoint classifies as that
// vertex, an interior projection as edge e.
func clampToEdge(p, a, b r2.Vec, e int) (r2.Vec, triangleFeature) {
	ab := r2.Sub(b, a)
	len2 := r2.Norm2(ab)
	if len2 == 0 {
		return a, featureV0 + triangleFeature(e)
	}
	t := r2.Dot(r2.Sub(p, a), ab) / len2
	switch {
	case t <= 0:
		return a, featureV0 + triangleFeature(e)
	case t >= 1:
		return b, featureV0 + triangleFeature((e+1)%3)
	}
	return r2.Add(a, r2.Scale(t, ab)), featureE0 + triangleFeature(e)
}

// inTriangle2 reports containment regardless of tri's winding: p is
// inside when it is not strictly on both sides of the edge set.
func inTriangle2(p r2.Vec, tri [3]r2.Vec) bool {
	d1 := orient2(p, tri[0], tri[1])
	d2 := orient2(p, tri[1], tri[2])
	d3 := orient2(p, tri[2], tri[0])
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

// orient2 is twice the signed area of the triangle (p1, p2, p3).
func orient2(p1, p2, p3 r2.Vec) float64 {
	return (p1.X-p3.X)*(p2.Y-p3.Y) - (p2.X-p3.X)*(p1.Y-p3.Y)
}
