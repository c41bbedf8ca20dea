package meshedit

import (
	"math"
	"testing"

	"github.com/printforge/meshedit/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// boxTriangles returns the 12 triangles of an axis-aligned box with
// outward winding.
func boxTriangles(center, size r3.Vec) []Triangle {
	h := r3.Scale(0.5, size)
	min := r3.Sub(center, h)
	max := r3.Add(center, h)
	c := func(x, y, z float64) r3.Vec { return r3.Vec{X: x, Y: y, Z: z} }
	v := [8]r3.Vec{
		c(min.X, min.Y, min.Z), c(max.X, min.Y, min.Z),
		c(max.X, max.Y, min.Z), c(min.X, max.Y, min.Z),
		c(min.X, min.Y, max.Z), c(max.X, min.Y, max.Z),
		c(max.X, max.Y, max.Z), c(min.X, max.Y, max.Z),
	}
	quads := [6][4]int{
		{0, 3, 2, 1}, // bottom, -Z
		{4, 5, 6, 7}, // top, +Z
		{0, 1, 5, 4}, // -Y
		{2, 3, 7, 6}, // +Y
		{1, 2, 6, 5}, // +X
		{3, 0, 4, 7}, // -X
	}
	var tris []Triangle
	for _, q := range quads {
		tris = append(tris,
			Triangle{V: [3]r3.Vec{v[q[0]], v[q[1]], v[q[2]]}},
			Triangle{V: [3]r3.Vec{v[q[0]], v[q[2]], v[q[3]]}},
		)
	}
	return tris
}

func boxMesh(center, size r3.Vec) *Mesh {
	return FromTriangles(boxTriangles(center, size), 0)
}

// tubeMesh builds a watertight tube along Z: outer radius ro, inner
// radius ri, height h, centered at the origin.
func tubeMesh(ro, ri, h float64, segments int) *Mesh {
	var tris []Triangle
	top, bottom := h/2, -h/2
	ring := func(r, ang float64, z float64) r3.Vec {
		return r3.Vec{X: r * math.Cos(ang), Y: r * math.Sin(ang), Z: z}
	}
	for i := 0; i < segments; i++ {
		a0 := 2 * math.Pi * float64(i) / float64(segments)
		a1 := 2 * math.Pi * float64(i+1) / float64(segments)
		// Outer wall, normal outward.
		o00, o01 := ring(ro, a0, bottom), ring(ro, a1, bottom)
		o10, o11 := ring(ro, a0, top), ring(ro, a1, top)
		tris = append(tris,
			Triangle{V: [3]r3.Vec{o00, o01, o11}},
			Triangle{V: [3]r3.Vec{o00, o11, o10}},
		)
		// Inner wall, normal toward the axis.
		i00, i01 := ring(ri, a0, bottom), ring(ri, a1, bottom)
		i10, i11 := ring(ri, a0, top), ring(ri, a1, top)
		tris = append(tris,
			Triangle{V: [3]r3.Vec{i00, i11, i01}},
			Triangle{V: [3]r3.Vec{i00, i10, i11}},
		)
		// Top annulus, normal +Z.
		tris = append(tris,
			Triangle{V: [3]r3.Vec{o10, o11, i11}},
			Triangle{V: [3]r3.Vec{o10, i11, i10}},
		)
		// Bottom annulus, normal -Z.
		tris = append(tris,
			Triangle{V: [3]r3.Vec{o00, i01, o01}},
			Triangle{V: [3]r3.Vec{o00, i00, i01}},
		)
	}
	return FromTriangles(tris, 0)
}

func TestFromTrianglesWeld(t *testing.T) {
	m := boxMesh(r3.Vec{}, d3.Elem(10))
	if got := m.VertexCount(); got != 8 {
		t.Errorf("welded cube vertices: got %d, want 8", got)
	}
	if got := m.FaceCount(); got != 12 {
		t.Errorf("cube faces: got %d, want 12", got)
	}
}

func TestCubeWatertightVolume(t *testing.T) {
	m := boxMesh(r3.Vec{}, d3.Elem(10))
	if !m.IsWatertight() {
		t.Fatal("cube should be watertight")
	}
	vol, ok := m.Volume()
	if !ok {
		t.Fatal("cube volume should be defined")
	}
	if math.Abs(vol-1000) > 1e-9 {
		t.Errorf("cube volume: got %g, want 1000", vol)
	}
	if sa := m.SurfaceArea(); math.Abs(sa-600) > 1e-9 {
		t.Errorf("cube surface area: got %g, want 600", sa)
	}
}

func TestOpenMeshNotWatertight(t *testing.T) {
	tris := boxTriangles(r3.Vec{}, d3.Elem(10))
	m := FromTriangles(tris[:len(tris)-1], 0)
	if m.IsWatertight() {
		t.Fatal("box with a missing triangle must not be watertight")
	}
	if _, ok := m.Volume(); ok {
		t.Error("volume must be undefined for an open mesh")
	}
}

func TestBoundsAndExtents(t *testing.T) {
	m := boxMesh(r3.Vec{X: 1, Y: 2, Z: 3}, r3.Vec{X: 2, Y: 4, Z: 6})
	bb := m.Bounds()
	if !d3.EqualWithin(bb.Min, r3.Vec{X: 0, Y: 0, Z: 0}, 1e-12) {
		t.Errorf("bounds min: got %v", bb.Min)
	}
	if !d3.EqualWithin(bb.Max, r3.Vec{X: 2, Y: 4, Z: 6}, 1e-12) {
		t.Errorf("bounds max: got %v", bb.Max)
	}
	if !d3.EqualWithin(m.Center(), r3.Vec{X: 1, Y: 2, Z: 3}, 1e-12) {
		t.Errorf("center: got %v", m.Center())
	}
}

func TestCloneIsIndependent(t *testing.T) {
	m := boxMesh(r3.Vec{}, d3.Elem(1))
	c := m.Clone()
	c.transform(d3.Scaling(r3.Vec{}, d3.Elem(2)))
	if !d3.EqualWithin(m.Extents(), d3.Elem(1), 1e-12) {
		t.Error("transforming a clone mutated the original")
	}
	if !d3.EqualWithin(c.Extents(), d3.Elem(2), 1e-12) {
		t.Error("clone was not transformed")
	}
}

func TestNewMeshValidatesIndices(t *testing.T) {
	_, err := NewMesh([]r3.Vec{{}, {X: 1}, {Y: 1}}, [][3]int{{0, 1, 3}})
	if err == nil {
		t.Fatal("expected error for out-of-range face index")
	}
}

func TestVertexNormalsOutward(t *testing.T) {
	m := boxMesh(r3.Vec{}, d3.Elem(2))
	normals := m.VertexNormals()
	for i, n := range normals {
		v := m.Vertex(i)
		if r3.Dot(n, v) <= 0 {
			t.Errorf("vertex %d normal %v points inward at %v", i, n, v)
		}
	}
}

func TestTubeFixtureWatertight(t *testing.T) {
	m := tubeMesh(8, 5, 10, 64)
	if !m.IsWatertight() {
		t.Fatal("tube fixture should be watertight")
	}
	vol, _ := m.Volume()
	want := math.Pi * (8*8 - 5*5) * 10
	// Faceted cylinders underestimate the true area slightly.
	if math.Abs(vol-want)/want > 0.02 {
		t.Errorf("tube volume: got %g, want about %g", vol, want)
	}
}
