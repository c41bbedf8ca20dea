package d2

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestAreaSign(t *testing.T) {
	ccw := []r2.Vec{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}}
	if a := Area(ccw); math.Abs(a-4) > 1e-12 {
		t.Errorf("ccw square area: got %g, want 4", a)
	}
	cw := []r2.Vec{{X: 0, Y: 0}, {X: 0, Y: 2}, {X: 2, Y: 2}, {X: 2, Y: 0}}
	if a := Area(cw); math.Abs(a+4) > 1e-12 {
		t.Errorf("cw square area: got %g, want -4", a)
	}
}

func TestInPolygon(t *testing.T) {
	square := []r2.Vec{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}}
	if !InPolygon(r2.Vec{X: 1, Y: 1}, square) {
		t.Error("center reported outside")
	}
	for _, p := range []r2.Vec{{X: 3, Y: 1}, {X: -1, Y: 1}, {X: 1, Y: 5}} {
		if InPolygon(p, square) {
			t.Errorf("%v reported inside", p)
		}
	}
	// Concave notch: the bay of a C shape is outside.
	cee := []r2.Vec{
		{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 3, Y: 1}, {X: 1, Y: 1},
		{X: 1, Y: 2}, {X: 3, Y: 2}, {X: 3, Y: 3}, {X: 0, Y: 3},
	}
	if InPolygon(r2.Vec{X: 2, Y: 1.5}, cee) {
		t.Error("bay of the C reported inside")
	}
	if !InPolygon(r2.Vec{X: 0.5, Y: 1.5}, cee) {
		t.Error("spine of the C reported outside")
	}
}

func TestCentroid(t *testing.T) {
	square := []r2.Vec{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}}
	c := Centroid(square)
	if !EqualWithin(c, r2.Vec{X: 1, Y: 1}, 1e-12) {
		t.Errorf("centroid: got %v, want (1, 1)", c)
	}
}
