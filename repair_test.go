package meshedit

import (
	"testing"

	"github.com/printforge/meshedit/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestRepairRemovesDegenerateAndDuplicateFaces(t *testing.T) {
	tris := boxTriangles(r3.Vec{}, d3.Elem(10))
	tris = append(tris, tris[0]) // duplicate
	p := r3.Vec{X: 1, Y: 1, Z: 5}
	tris = append(tris, Triangle{V: [3]r3.Vec{p, p, p}}) // degenerate
	m := FromTriangles(tris, 0)

	out, rep, err := RepairAll(m, RepairOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if rep.DuplicatesRemoved != 1 {
		t.Errorf("duplicates removed: got %d, want 1", rep.DuplicatesRemoved)
	}
	if rep.DegenerateRemoved < 1 {
		t.Errorf("degenerate removed: got %d, want >= 1", rep.DegenerateRemoved)
	}
	if out.FaceCount() != 12 {
		t.Errorf("faces after repair: got %d, want 12", out.FaceCount())
	}
	if !rep.Watertight {
		t.Error("repaired cube must be watertight")
	}
}

func TestRepairFillsHoles(t *testing.T) {
	tris := boxTriangles(r3.Vec{}, d3.Elem(10))
	open := FromTriangles(tris[:len(tris)-1], 0)
	if open.IsWatertight() {
		t.Fatal("fixture must start with a hole")
	}
	out, rep, err := RepairAll(open, RepairOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if rep.HolesFilled < 1 {
		t.Fatalf("holes filled: got %d, want >= 1", rep.HolesFilled)
	}
	if !out.IsWatertight() {
		t.Error("hole filling must close the mesh")
	}
}

func TestRepairFixesWinding(t *testing.T) {
	tris := boxTriangles(r3.Vec{}, d3.Elem(10))
	// Flip a few faces inward.
	for _, i := range []int{0, 5, 9} {
		tris[i].V[1], tris[i].V[2] = tris[i].V[2], tris[i].V[1]
	}
	m := FromTriangles(tris, 0)
	out, rep, err := RepairAll(m, RepairOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if rep.FacesReoriented == 0 {
		t.Error("expected reoriented faces")
	}
	vol, ok := out.Volume()
	if !ok || vol <= 0 {
		t.Fatalf("repaired cube volume: got %g, watertight=%v", vol, ok)
	}
}

func TestMergeVerticesClosesSeams(t *testing.T) {
	// Perturbed triangle corners defeat the weld on import; merging at a
	// looser tolerance must recover the closed cube.
	tris := boxTriangles(r3.Vec{}, d3.Elem(10))
	for i := range tris {
		for j := range tris[i].V {
			tris[i].V[j] = r3.Add(tris[i].V[j], r3.Vec{X: float64(i) * 1e-9})
		}
	}
	m := FromTriangles(tris, 1e-15)
	if m.IsWatertight() {
		t.Fatal("fixture must start with open seams")
	}
	merged := mergeVertices(m, 1e-6)
	if merged == 0 {
		t.Fatal("expected merged vertices")
	}
	if !m.IsWatertight() {
		t.Error("merging must close the numerical seams")
	}
}

func TestRepairIdempotent(t *testing.T) {
	tris := boxTriangles(r3.Vec{}, d3.Elem(10))
	tris = append(tris, tris[3])
	m := FromTriangles(tris, 0)

	once, _, err := RepairAll(m, RepairOptions{})
	if err != nil {
		t.Fatal(err)
	}
	twice, rep, err := RepairAll(once, RepairOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if twice.VertexCount() != once.VertexCount() || twice.FaceCount() != once.FaceCount() {
		t.Errorf("second repair changed counts: %d/%d -> %d/%d",
			once.VertexCount(), once.FaceCount(), twice.VertexCount(), twice.FaceCount())
	}
	if rep.DegenerateRemoved+rep.DuplicatesRemoved+rep.HolesFilled+rep.VerticesMerged != 0 {
		t.Error("second repair must be a no-op")
	}
}

func TestMakeWatertightClosesOpenShells(t *testing.T) {
	trisA := boxTriangles(r3.Vec{}, d3.Elem(2))
	trisB := boxTriangles(r3.Vec{X: 10}, d3.Elem(2))
	tris := append(trisA[:len(trisA)-1], trisB[:len(trisB)-1]...)
	m := FromTriangles(tris, 0)

	out, rep, err := MakeWatertight(m, true)
	if err != nil {
		t.Fatal(err)
	}
	if !out.IsWatertight() {
		t.Fatalf("result not watertight; log: %v", rep.Log)
	}
}
