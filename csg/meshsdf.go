package csg

import (
	"errors"
	"math"

	"github.com/printforge/meshedit"
	"github.com/printforge/meshedit/internal/d3"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// SDF3 is a 3D signed distance field: negative inside the solid,
// positive outside.
type SDF3 interface {
	Evaluate(p r3.Vec) float64
	Bounds() r3.Box
}

// meshSDF evaluates signed distance to a triangle mesh. The sign comes
// from angle-weighted pseudo-normals at vertices and edges, which stay
// well defined at sharp features where the face normal alone is
// ambiguous.
type meshSDF struct {
	tree kdtree.Tree
	grid *triangleGrid
}

// NewMeshSDF lifts a mesh into a signed distance field. The mesh should
// be watertight with consistent outward winding for the sign to be
// meaningful everywhere.
func NewMeshSDF(m *meshedit.Mesh) (SDF3, error) {
	g, err := newTriangleGrid(m)
	if err != nil {
		return nil, err
	}
	tree := kdtree.New(g, true)
	return &meshSDF{tree: *tree, grid: g}, nil
}

func (s *meshSDF) Evaluate(q r3.Vec) float64 {
	nearest, dist2 := s.tree.Nearest(&sdfTriangle{C: q})
	tri := nearest.(*sdfTriangle)
	return tri.copySign(q, math.Sqrt(dist2))
}

func (s *meshSDF) Bounds() r3.Box {
	return r3.Box{Min: s.grid.bb.Min, Max: s.grid.bb.Max}
}

type pseudoVertex struct {
	V r3.Vec
	// N is the pseudo normal weighted by the opening angle each
	// incident triangle subtends at this vertex.
	N r3.Vec
}

// triangleGrid holds the indexed triangle soup plus the pseudo-normal
// tables. It implements kdtree.Interface over triangle centroids.
type triangleGrid struct {
	bb        d3.Box
	vertices  []pseudoVertex
	triangles []sdfTriangle
	// edge pseudo normals keyed by vertex index pair, lower index first.
	pseudoEdgeN map[[2]int]r3.Vec
}

func newTriangleGrid(m *meshedit.Mesh) (*triangleGrid, error) {
	if m.IsEmpty() {
		return nil, errors.New("cannot build SDF from empty mesh")
	}
	bb := m.Bounds()
	g := &triangleGrid{
		bb:          bb,
		vertices:    make([]pseudoVertex, m.VertexCount()),
		triangles:   make([]sdfTriangle, m.FaceCount()),
		pseudoEdgeN: make(map[[2]int]r3.Vec),
	}
	for i, v := range m.Vertices() {
		g.vertices[i].V = v
	}
	for i := 0; i < m.FaceCount(); i++ {
		f := m.Face(i)
		tri := m.Triangle(i)
		norm := tri.Normal()
		tf := triangleFrame(tri)
		g.triangles[i] = sdfTriangle{
			N:        r3.Scale(2*math.Pi, norm),
			C:        tri.Centroid(),
			T:        tf,
			InvT:     tf.InvRigid(),
			Vertices: f,
			g:        g,
		}
		for j := 0; j < 3; j++ {
			// Vertex pseudo normal, weighted by the opening angle.
			s1 := r3.Sub(tri.V[j], tri.V[(j+1)%3])
			s2 := r3.Sub(tri.V[j], tri.V[(j+2)%3])
			alpha := math.Acos(r3.Cos(s1, s2))
			g.vertices[f[j]].N = r3.Add(g.vertices[f[j]].N, r3.Scale(alpha, norm))

			edge := [2]int{f[j], f[(j+1)%3]}
			if edge[0] > edge[1] {
				edge[0], edge[1] = edge[1], edge[0]
			}
			g.pseudoEdgeN[edge] = r3.Add(g.pseudoEdgeN[edge], r3.Scale(math.Pi, norm))
		}
	}
	return g, nil
}

func (g *triangleGrid) Index(i int) kdtree.Comparable { return &g.triangles[i] }
func (g *triangleGrid) Len() int                      { return len(g.triangles) }
func (g *triangleGrid) Pivot(d kdtree.Dim) int {
	p := trianglePlane{dim: int(d), triangles: g.triangles}
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}
func (g *triangleGrid) Slice(start, end int) kdtree.Interface {
	sub := *g
	sub.triangles = sub.triangles[start:end]
	return &sub
}

// Bounds implements kdtree.Bounder over the current triangle slice.
func (g *triangleGrid) Bounds() *kdtree.Bounding {
	min := sdfTriangle{C: d3.Elem(math.MaxFloat64)}
	max := sdfTriangle{C: d3.Elem(-math.MaxFloat64)}
	for _, t := range g.triangles {
		min.C = d3.MinElem(min.C, t.C)
		max.C = d3.MaxElem(max.C, t.C)
	}
	return &kdtree.Bounding{Min: &min, Max: &max}
}

type trianglePlane struct {
	dim       int
	triangles []sdfTriangle
}

func (p trianglePlane) Less(i, j int) bool {
	return p.triangles[i].Compare(&p.triangles[j], kdtree.Dim(p.dim)) < 0
}
func (p trianglePlane) Swap(i, j int) {
	p.triangles[i], p.triangles[j] = p.triangles[j], p.triangles[i]
}
func (p trianglePlane) Len() int { return len(p.triangles) }
func (p trianglePlane) Slice(start, end int) kdtree.SortSlicer {
	p.triangles = p.triangles[start:end]
	return p
}

// sdfTriangle is one mesh triangle prepared for nearest-feature
// queries: the frame transform flattens it into the XY plane so the
// closest-point search runs in 2D.
type sdfTriangle struct {
	C           r3.Vec // centroid
	lastFeature triangleFeature
	lastClosest r3.Vec
	Vertices    [3]int
	g           *triangleGrid
	N           r3.Vec       // face pseudo normal, scaled by 2*pi
	T           d3.Transform // world to triangle frame
	InvT        d3.Transform
}

func (t *sdfTriangle) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(*sdfTriangle)
	switch d {
	case 0:
		return t.C.X - q.C.X
	case 1:
		return t.C.Y - q.C.Y
	case 2:
		return t.C.Z - q.C.Z
	}
	panic("unreachable")
}

func (t *sdfTriangle) Dims() int { return 3 }

func (t *sdfTriangle) Distance(c kdtree.Comparable) float64 {
	point := c.(*sdfTriangle)
	if t.isPoint() {
		if point.isPoint() {
			return r3.Norm2(r3.Sub(t.C, point.C))
		}
		point, t = t, point // make sure t is the triangle
	}
	p := t.T.Transform(point.C)
	v := t.corners()
	for i := range v {
		v[i] = t.T.Transform(v[i])
	}
	// The triangle lies in z=0 of its frame; the closest point search
	// reduces to 2D, then maps back.
	on2, feat := closestOnTriangle2(flatten(p), [3]r2.Vec{flatten(v[0]), flatten(v[1]), flatten(v[2])})
	t.lastFeature = feat
	t.lastClosest = t.InvT.Transform(r3.Vec{X: on2.X, Y: on2.Y})
	return r3.Norm2(r3.Sub(point.C, t.lastClosest))
}

// copySign returns dist with the inside/outside sign of the last
// Distance query, decided by the pseudo normal of the nearest feature.
// p must be the same point passed to the last Distance call.
func (t *sdfTriangle) copySign(p r3.Vec, dist float64) float64 {
	var signed float64
	switch {
	case t.lastFeature <= featureV2:
		vertex := t.g.vertices[t.Vertices[t.lastFeature]]
		signed = r3.Dot(vertex.N, r3.Sub(p, vertex.V))
	case t.lastFeature <= featureE2:
		first := int(t.lastFeature - featureE0)
		edge := [2]int{t.Vertices[first], t.Vertices[(first+1)%3]}
		if edge[0] > edge[1] {
			edge[0], edge[1] = edge[1], edge[0]
		}
		signed = r3.Dot(t.g.pseudoEdgeN[edge], r3.Sub(p, t.lastClosest))
	default:
		signed = r3.Dot(t.N, r3.Sub(p, t.lastClosest))
	}
	return math.Copysign(dist, signed)
}

func (t *sdfTriangle) corners() [3]r3.Vec {
	return [3]r3.Vec{
		t.g.vertices[t.Vertices[0]].V,
		t.g.vertices[t.Vertices[1]].V,
		t.g.vertices[t.Vertices[2]].V,
	}
}

func (t *sdfTriangle) isPoint() bool {
	return t.N == (r3.Vec{}) // uninitialized fields mark a bare query point
}

// triangleFrame returns the rigid transform that puts the triangle's
// first vertex at the origin, its first edge on the X axis and the
// whole triangle in the XY plane.
func triangleFrame(t meshedit.Triangle) d3.Transform {
	u2 := r3.Sub(t.V[1], t.V[0])
	u3 := r3.Sub(t.V[2], t.V[0])

	xc := r3.Unit(u2)
	yc := r3.Sub(u3, r3.Scale(r3.Dot(xc, u3), xc))
	yc = r3.Unit(yc)
	zc := r3.Cross(xc, yc)

	tf := d3.Rotation(xc, yc, zc)
	return tf.Translate(r3.Scale(-1, tf.Transform(t.V[0])))
}

func flatten(v r3.Vec) r2.Vec {
	return r2.Vec{X: v.X, Y: v.Y}
}
