package triangulate

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func triArea(pts []r2.Vec, t [3]int) float64 {
	a, b, c := pts[t[0]], pts[t[1]], pts[t[2]]
	return 0.5 * ((b.X-a.X)*(c.Y-a.Y) - (c.X-a.X)*(b.Y-a.Y))
}

func TestPolygonSquare(t *testing.T) {
	square := []r2.Vec{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}}
	tris, err := Polygon(square, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(tris) != 2 {
		t.Fatalf("triangles: got %d, want 2", len(tris))
	}
	total := 0.0
	for _, tri := range tris {
		a := triArea(square, tri)
		if a <= 0 {
			t.Errorf("triangle %v not counter-clockwise, signed area %g", tri, a)
		}
		total += a
	}
	if math.Abs(total-4) > 1e-12 {
		t.Errorf("total area: got %g, want 4", total)
	}
}

func TestPolygonWindingInsensitive(t *testing.T) {
	cw := []r2.Vec{{X: 0, Y: 0}, {X: 0, Y: 2}, {X: 2, Y: 2}, {X: 2, Y: 0}}
	tris, err := Polygon(cw, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, tri := range tris {
		if triArea(cw, tri) <= 0 {
			t.Errorf("triangle %v not counter-clockwise after reorientation", tri)
		}
	}
}

func TestPolygonConcave(t *testing.T) {
	// L shape of area 3.
	ell := []r2.Vec{
		{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1},
		{X: 1, Y: 1}, {X: 1, Y: 2}, {X: 0, Y: 2},
	}
	tris, err := Polygon(ell, nil)
	if err != nil {
		t.Fatal(err)
	}
	total := 0.0
	for _, tri := range tris {
		total += triArea(ell, tri)
	}
	if math.Abs(total-3) > 1e-12 {
		t.Errorf("L area: got %g, want 3", total)
	}
}

func TestPolygonWithHole(t *testing.T) {
	outer := []r2.Vec{{X: -2, Y: -2}, {X: 2, Y: -2}, {X: 2, Y: 2}, {X: -2, Y: 2}}
	hole := []r2.Vec{{X: -1, Y: -1}, {X: 1, Y: -1}, {X: 1, Y: 1}, {X: -1, Y: 1}}
	tris, err := Polygon(outer, [][]r2.Vec{hole})
	if err != nil {
		t.Fatal(err)
	}
	all := append(append([]r2.Vec(nil), outer...), hole...)
	total := 0.0
	for _, tri := range tris {
		for _, idx := range tri {
			if idx < 0 || idx >= len(all) {
				t.Fatalf("triangle index %d out of range %d", idx, len(all))
			}
		}
		total += math.Abs(triArea(all, tri))
	}
	if math.Abs(total-12) > 1e-9 {
		t.Errorf("annulus area: got %g, want 12", total)
	}
	// No triangle centroid may land inside the hole.
	for _, tri := range tris {
		cx := (all[tri[0]].X + all[tri[1]].X + all[tri[2]].X) / 3
		cy := (all[tri[0]].Y + all[tri[1]].Y + all[tri[2]].Y) / 3
		if cx > -1 && cx < 1 && cy > -1 && cy < 1 {
			t.Errorf("triangle %v centered at (%g, %g) inside the hole", tri, cx, cy)
		}
	}
}

func TestPolygonDegenerate(t *testing.T) {
	if _, err := Polygon([]r2.Vec{{X: 0}, {X: 1}}, nil); err != ErrDegenerate {
		t.Errorf("got %v, want ErrDegenerate", err)
	}
	if _, err := Polygon(nil, nil); err != ErrDegenerate {
		t.Errorf("got %v, want ErrDegenerate", err)
	}
}

func TestPolygonSkipsTinyHoles(t *testing.T) {
	outer := []r2.Vec{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}}
	// A two-point "hole" cannot bound area and is ignored, but it still
	// shifts the index base of later holes.
	tiny := []r2.Vec{{X: 1, Y: 1}, {X: 1.1, Y: 1}}
	hole := []r2.Vec{{X: 2, Y: 2}, {X: 3, Y: 2}, {X: 3, Y: 3}, {X: 2, Y: 3}}
	tris, err := Polygon(outer, [][]r2.Vec{tiny, hole})
	if err != nil {
		t.Fatal(err)
	}
	all := append(append(append([]r2.Vec(nil), outer...), tiny...), hole...)
	total := 0.0
	for _, tri := range tris {
		total += math.Abs(triArea(all, tri))
	}
	if math.Abs(total-15) > 1e-9 {
		t.Errorf("area: got %g, want 15", total)
	}
}

func TestFan(t *testing.T) {
	hex := make([]r2.Vec, 6)
	for i := range hex {
		ang := 2 * math.Pi * float64(i) / 6
		hex[i] = r2.Vec{X: math.Cos(ang), Y: math.Sin(ang)}
	}
	tris, err := Fan(hex)
	if err != nil {
		t.Fatal(err)
	}
	if len(tris) != 4 {
		t.Fatalf("fan triangles: got %d, want 4", len(tris))
	}
	for _, tri := range tris {
		if tri[0] != 0 {
			t.Errorf("fan triangle %v not anchored at vertex 0", tri)
		}
	}
	if _, err := Fan(hex[:2]); err != ErrDegenerate {
		t.Errorf("got %v, want ErrDegenerate", err)
	}
}
