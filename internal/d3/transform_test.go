package d3

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestReflectionInvolution(t *testing.T) {
	p := r3.Vec{X: 1, Y: 2, Z: 3}
	n := r3.Unit(r3.Vec{X: 1, Y: 1, Z: 0})
	tf := Reflection(p, n)
	if tf.Det() >= 0 {
		t.Errorf("reflection determinant %g, want negative", tf.Det())
	}
	v := r3.Vec{X: 5, Y: -2, Z: 7}
	twice := tf.Transform(tf.Transform(v))
	if !EqualWithin(twice, v, 1e-12) {
		t.Errorf("double reflection: got %v, want %v", twice, v)
	}
	// Points on the plane are fixed.
	if got := tf.Transform(p); !EqualWithin(got, p, 1e-12) {
		t.Errorf("plane point moved to %v", got)
	}
}

func TestReflectionAboutAxisPlane(t *testing.T) {
	tf := Reflection(r3.Vec{X: 5}, r3.Vec{X: 1})
	got := tf.Transform(r3.Vec{X: 9, Y: 2, Z: 3})
	want := r3.Vec{X: 1, Y: 2, Z: 3}
	if !EqualWithin(got, want, 1e-12) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestScalingAboutPoint(t *testing.T) {
	origin := r3.Vec{X: 1, Y: 1, Z: 1}
	tf := Scaling(origin, Elem(2))
	if got := tf.Transform(origin); !EqualWithin(got, origin, 1e-12) {
		t.Errorf("scaling origin moved to %v", got)
	}
	got := tf.Transform(r3.Vec{X: 2, Y: 1, Z: 1})
	want := r3.Vec{X: 3, Y: 1, Z: 1}
	if !EqualWithin(got, want, 1e-12) {
		t.Errorf("got %v, want %v", got, want)
	}
	if math.Abs(tf.Det()-8) > 1e-12 {
		t.Errorf("det: got %g, want 8", tf.Det())
	}
}

func TestMulComposition(t *testing.T) {
	move := Translation(r3.Vec{X: 1})
	scale := Scaling(r3.Vec{}, Elem(3))
	// scale∘move applies move first.
	tf := scale.Mul(move)
	got := tf.Transform(r3.Vec{X: 1})
	want := r3.Vec{X: 6}
	if !EqualWithin(got, want, 1e-12) {
		t.Errorf("got %v, want %v", got, want)
	}
	// Identity composes neutrally.
	if got := Identity().Mul(tf).Transform(r3.Vec{X: 1}); !EqualWithin(got, want, 1e-12) {
		t.Errorf("identity composition changed the result to %v", got)
	}
}

func TestRotationFrame(t *testing.T) {
	// Frame with x' along world Y: rotation rows map world to frame.
	tf := Rotation(r3.Vec{Y: 1}, r3.Vec{X: -1}, r3.Vec{Z: 1})
	got := tf.Transform(r3.Vec{Y: 2})
	want := r3.Vec{X: 2}
	if !EqualWithin(got, want, 1e-12) {
		t.Errorf("got %v, want %v", got, want)
	}
	if math.Abs(tf.Det()-1) > 1e-12 {
		t.Errorf("rotation det: got %g, want 1", tf.Det())
	}
}

func TestInvRigidRoundtrip(t *testing.T) {
	s := math.Sqrt(0.5)
	tf := Rotation(r3.Vec{X: s, Y: s}, r3.Vec{X: -s, Y: s}, r3.Vec{Z: 1}).
		Translate(r3.Vec{X: 4, Y: -1, Z: 2})
	inv := tf.InvRigid()
	for _, v := range []r3.Vec{{}, {X: 1}, {X: -2, Y: 3, Z: 5}} {
		back := inv.Transform(tf.Transform(v))
		if !EqualWithin(back, v, 1e-12) {
			t.Errorf("roundtrip of %v: got %v", v, back)
		}
	}
}
