package meshedit

import (
	"math"
	"testing"

	"github.com/printforge/meshedit/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestMirrorIsInvolution(t *testing.T) {
	m := boxMesh(r3.Vec{X: 3, Y: -1, Z: 2}, r3.Vec{X: 2, Y: 5, Z: 1})
	for _, axis := range [3]Axis{AxisX, AxisY, AxisZ} {
		once, _, err := Mirror(m, axis, false)
		if err != nil {
			t.Fatal(err)
		}
		twice, _, err := Mirror(once, axis, false)
		if err != nil {
			t.Fatal(err)
		}
		if twice.VertexCount() != m.VertexCount() {
			t.Fatalf("axis %v: vertex count changed", axis)
		}
		for i := 0; i < m.VertexCount(); i++ {
			if !d3.EqualWithin(twice.Vertex(i), m.Vertex(i), 1e-9) {
				t.Fatalf("axis %v: vertex %d moved: %v -> %v", axis, i, m.Vertex(i), twice.Vertex(i))
			}
		}
	}
}

func TestMirrorKeepsWatertightAndVolume(t *testing.T) {
	m := boxMesh(r3.Vec{X: 1}, d3.Elem(2))
	out, stats, err := Mirror(m, AxisX, false)
	if err != nil {
		t.Fatal(err)
	}
	if !out.IsWatertight() {
		t.Fatal("mirrored cube must stay watertight")
	}
	if !stats.VolumeDeltaValid || math.Abs(stats.VolumeDelta) > 1e-9 {
		t.Errorf("reflection must preserve volume, delta %g", stats.VolumeDelta)
	}
}

func TestMirrorPlaneHouseholder(t *testing.T) {
	m := boxMesh(r3.Vec{}, d3.Elem(2))
	// Reflect about the plane x=5.
	out, _, err := MirrorPlane(m, r3.Vec{X: 5}, r3.Vec{X: 1}, false)
	if err != nil {
		t.Fatal(err)
	}
	bb := out.Bounds()
	if math.Abs(bb.Min.X-9) > 1e-9 || math.Abs(bb.Max.X-11) > 1e-9 {
		t.Errorf("reflected cube spans x [%g, %g], want [9, 11]", bb.Min.X, bb.Max.X)
	}
}

func TestMirrorPlaneZeroNormal(t *testing.T) {
	m := boxMesh(r3.Vec{}, d3.Elem(2))
	if _, _, err := MirrorPlane(m, r3.Vec{}, r3.Vec{}, false); err == nil {
		t.Fatal("zero normal accepted")
	}
}

func TestMirrorMergeDoublesGeometry(t *testing.T) {
	m := boxMesh(r3.Vec{}, d3.Elem(2))
	out, stats, err := Mirror(m, AxisZ, true)
	if err != nil {
		t.Fatal(err)
	}
	if out.FaceCount() != 2*m.FaceCount() {
		t.Errorf("merged mirror faces: got %d, want %d", out.FaceCount(), 2*m.FaceCount())
	}
	if stats.PartsCreated != 2 {
		t.Errorf("PartsCreated: got %d, want 2", stats.PartsCreated)
	}
}

func TestSymmetrizeProducesSymmetry(t *testing.T) {
	// An asymmetric mesh: a cube shifted so the positive-x half differs
	// from the negative-x half after symmetrizing about the center.
	m := boxMesh(r3.Vec{}, r3.Vec{X: 10, Y: 4, Z: 4})
	out, _, err := Symmetrize(m, AxisX, SidePositive)
	if err != nil {
		t.Fatal(err)
	}
	if !out.IsWatertight() {
		t.Fatal("symmetrized cube must be watertight")
	}
	// Every vertex must have a mirror partner about the center plane.
	center := out.Center()
	for i := 0; i < out.VertexCount(); i++ {
		v := out.Vertex(i)
		want := r3.Vec{X: 2*center.X - v.X, Y: v.Y, Z: v.Z}
		found := false
		for j := 0; j < out.VertexCount(); j++ {
			if d3.EqualWithin(out.Vertex(j), want, 1e-6) {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("vertex %v has no mirror partner %v", v, want)
		}
	}
}

func TestAutoSymmetrizePicksLargestExtent(t *testing.T) {
	m := boxMesh(r3.Vec{}, r3.Vec{X: 2, Y: 20, Z: 2})
	out, stats, err := AutoSymmetrize(m)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Op != "symmetrize" {
		t.Errorf("op: got %q", stats.Op)
	}
	if out.IsEmpty() {
		t.Fatal("auto symmetrize returned empty mesh")
	}
}
