package meshedit

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestPrismSolid(t *testing.T) {
	profile := []r2.Vec{{X: -1, Y: -1}, {X: 1, Y: -1}, {X: 1, Y: 1}, {X: -1, Y: 1}}
	m, err := prismSolid(r3.Vec{}, r3.Vec{X: 10}, profile, r3.Vec{Z: 1})
	if err != nil {
		t.Fatal(err)
	}
	if !m.IsWatertight() {
		t.Fatal("prism must be watertight")
	}
	vol, _ := m.Volume()
	if math.Abs(vol-40) > 1e-9 {
		t.Errorf("prism volume: got %g, want 40", vol)
	}
	bb := m.Bounds()
	if math.Abs(bb.Min.X) > 1e-9 || math.Abs(bb.Max.X-10) > 1e-9 {
		t.Errorf("prism x-range [%g, %g], want [0, 10]", bb.Min.X, bb.Max.X)
	}
}

func TestPrismSolidWindingInsensitive(t *testing.T) {
	cw := []r2.Vec{{X: -1, Y: -1}, {X: -1, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: -1}}
	m, err := prismSolid(r3.Vec{}, r3.Vec{Y: 5}, cw, r3.Vec{Z: 1})
	if err != nil {
		t.Fatal(err)
	}
	if v := m.signedVolume(); v <= 0 {
		t.Errorf("signed volume %g, want positive outward orientation", v)
	}
}

func TestPrismSolidDegenerate(t *testing.T) {
	profile := []r2.Vec{{X: -1, Y: -1}, {X: 1, Y: -1}, {X: 0, Y: 1}}
	if _, err := prismSolid(r3.Vec{}, r3.Vec{}, profile, r3.Vec{Z: 1}); err == nil {
		t.Error("zero-length axis accepted")
	}
	if _, err := prismSolid(r3.Vec{}, r3.Vec{X: 1}, profile[:2], r3.Vec{Z: 1}); err == nil {
		t.Error("two-point profile accepted")
	}
}

func TestCylinderSolid(t *testing.T) {
	m, err := cylinderSolid(r3.Vec{}, r3.Vec{Z: 10}, 3, 64)
	if err != nil {
		t.Fatal(err)
	}
	if !m.IsWatertight() {
		t.Fatal("cylinder must be watertight")
	}
	vol, _ := m.Volume()
	want := math.Pi * 9 * 10
	if math.Abs(vol-want)/want > 0.01 {
		t.Errorf("cylinder volume: got %g, want about %g", vol, want)
	}
	if _, err := cylinderSolid(r3.Vec{}, r3.Vec{Z: 1}, 0, 16); err == nil {
		t.Error("zero radius accepted")
	}
}
