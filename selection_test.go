package meshedit

import (
	"math"
	"testing"

	"github.com/printforge/meshedit/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestSelectRadius(t *testing.T) {
	m := boxMesh(r3.Vec{}, d3.Elem(2)) // corners at (±1, ±1, ±1)
	corner := r3.Vec{X: 1, Y: 1, Z: 1}

	sel, err := SelectRadius(m, corner, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if len(sel) != 1 {
		t.Fatalf("tight radius: got %d vertices, want 1", len(sel))
	}
	if got := m.Vertex(sel[0]); !d3.EqualWithin(got, corner, 1e-12) {
		t.Errorf("selected vertex %v, want %v", got, corner)
	}

	// Radius 2.1 additionally reaches the three edge-adjacent corners at
	// distance 2.
	sel, err = SelectRadius(m, corner, 2.1)
	if err != nil {
		t.Fatal(err)
	}
	if len(sel) != 4 {
		t.Errorf("loose radius: got %d vertices, want 4", len(sel))
	}

	sel, err = SelectRadius(m, corner, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(sel) != 8 {
		t.Errorf("covering radius: got %d vertices, want 8", len(sel))
	}

	if _, err := SelectRadius(m, corner, 0); err == nil {
		t.Error("zero radius accepted")
	}
}

func TestSelectBox(t *testing.T) {
	m := boxMesh(r3.Vec{}, d3.Elem(2))
	upper := d3.Box{Min: r3.Vec{X: -2, Y: -2, Z: 0.5}, Max: r3.Vec{X: 2, Y: 2, Z: 2}}
	sel := SelectBox(m, upper)
	if len(sel) != 4 {
		t.Fatalf("upper half box: got %d vertices, want 4", len(sel))
	}
	for _, i := range sel {
		if m.Vertex(i).Z < 0.5 {
			t.Errorf("vertex %d at %v outside the box", i, m.Vertex(i))
		}
	}
	if sel := SelectBox(m, d3.Box{Min: d3.Elem(5), Max: d3.Elem(6)}); len(sel) != 0 {
		t.Errorf("empty box selected %d vertices", len(sel))
	}
}

func TestSelectRay(t *testing.T) {
	m := boxMesh(r3.Vec{}, d3.Elem(2))
	face, hit, ok := SelectRay(m, r3.Vec{Z: 5}, r3.Vec{Z: -1})
	if !ok {
		t.Fatal("ray down the z axis must hit the cube")
	}
	if math.Abs(hit.Z-1) > 1e-9 {
		t.Errorf("hit %v, want z=1 on the top face", hit)
	}
	n := m.Triangle(face).Normal()
	if r3.Dot(n, r3.Vec{Z: 1}) < 0.99 {
		t.Errorf("hit face normal %v, want +Z", n)
	}

	if _, _, ok := SelectRay(m, r3.Vec{Z: 5}, r3.Vec{Z: 1}); ok {
		t.Error("ray pointing away reported a hit")
	}
	if _, _, ok := SelectRay(m, r3.Vec{X: 5, Y: 5, Z: 5}, r3.Vec{Z: -1}); ok {
		t.Error("ray beside the cube reported a hit")
	}
	if _, _, ok := SelectRay(m, r3.Vec{}, r3.Vec{}); ok {
		t.Error("zero direction reported a hit")
	}
}

func TestSelectFlood(t *testing.T) {
	m := boxMesh(r3.Vec{}, d3.Elem(2))
	all, err := SelectFlood(m, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 8 {
		t.Errorf("unbounded flood: got %d vertices, want all 8", len(all))
	}

	near, err := SelectFlood(m, 0, 2.1)
	if err != nil {
		t.Fatal(err)
	}
	if len(near) >= 8 || len(near) < 2 {
		t.Errorf("bounded flood: got %d vertices, want a strict subset", len(near))
	}
	for _, i := range near {
		if i == 0 {
			return
		}
	}
	t.Error("flood selection must contain the seed")
}

func TestSelectFloodSeedRange(t *testing.T) {
	m := boxMesh(r3.Vec{}, d3.Elem(2))
	if _, err := SelectFlood(m, -1, 0); err == nil {
		t.Error("negative seed accepted")
	}
	if _, err := SelectFlood(m, m.VertexCount(), 0); err == nil {
		t.Error("out-of-range seed accepted")
	}
}

func TestSelectionManagerUndo(t *testing.T) {
	sm := NewSelectionManager(0)
	sm.Add([]int{1, 2, 3})
	sm.Remove([]int{2})
	if got := sm.Current(); len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Fatalf("current selection: got %v, want [1 3]", got)
	}
	if !sm.Undo() {
		t.Fatal("undo with history failed")
	}
	if got := sm.Count(); got != 3 {
		t.Errorf("after undo: got %d selected, want 3", got)
	}
	if !sm.Undo() {
		t.Fatal("second undo failed")
	}
	if sm.Count() != 0 {
		t.Errorf("after second undo: got %d selected, want 0", sm.Count())
	}
	if sm.Undo() {
		t.Error("undo with empty history succeeded")
	}
}

func TestSelectionManagerDepthBound(t *testing.T) {
	sm := NewSelectionManager(2)
	for i := 0; i < 5; i++ {
		sm.Add([]int{i})
	}
	undos := 0
	for sm.Undo() {
		undos++
	}
	if undos != 2 {
		t.Errorf("undo steps: got %d, want the depth bound 2", undos)
	}
}

func TestPaintBlendsWithFalloff(t *testing.T) {
	m := boxMesh(r3.Vec{}, d3.Elem(2))
	corner := r3.Vec{X: 1, Y: 1, Z: 1}
	red := [3]float64{1, 0, 0}
	out, stats, err := Paint(m, corner, 2.5, red, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(stats.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", stats.Warnings)
	}
	colors := out.Colors()
	if colors == nil {
		t.Fatal("painting must allocate colors")
	}
	var atCorner, atFar int
	for i := 0; i < out.VertexCount(); i++ {
		v := out.Vertex(i)
		switch {
		case d3.EqualWithin(v, corner, 1e-12):
			atCorner = i
		case d3.EqualWithin(v, r3.Scale(-1, corner), 1e-12):
			atFar = i
		}
	}
	if c := colors[atCorner]; c != red {
		t.Errorf("center vertex color %v, want full red", c)
	}
	if c := colors[atFar]; c != ([3]float64{1, 1, 1}) {
		t.Errorf("out-of-radius vertex color %v, want untouched white", c)
	}
	// An edge-adjacent corner at distance 2 gets a partial blend: the red
	// channel stays saturated while green and blue drop by the weight.
	sel, _ := SelectRadius(out, r3.Vec{X: 1, Y: 1, Z: -1}, 0.1)
	c := colors[sel[0]]
	if math.Abs(c[0]-1) > 1e-9 || c[1] <= 0 || c[1] >= 1 {
		t.Errorf("partial blend color %v, want red-tinted white", c)
	}

	if m.Colors() != nil {
		t.Error("painting mutated the input mesh")
	}
}

func TestPaintOutsideMeshWarns(t *testing.T) {
	m := boxMesh(r3.Vec{}, d3.Elem(2))
	_, stats, err := Paint(m, r3.Vec{X: 100}, 1, [3]float64{0, 1, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(stats.Warnings) == 0 {
		t.Error("painting nothing must warn")
	}
	if _, _, err := Paint(m, r3.Vec{}, -1, [3]float64{0, 1, 0}, 1); err == nil {
		t.Error("negative radius accepted")
	}
}
