package meshedit

import (
	"math"
	"testing"

	"github.com/printforge/meshedit/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestAnalyzeCube(t *testing.T) {
	m := boxMesh(r3.Vec{}, d3.Elem(10))
	info := Analyze(m)
	if info.Vertices != 8 || info.Faces != 12 {
		t.Errorf("counts: got %d/%d, want 8/12", info.Vertices, info.Faces)
	}
	// 12 cube edges plus one triangulation diagonal per face pair.
	if info.EdgeCount != 18 {
		t.Errorf("edges: got %d, want 18", info.EdgeCount)
	}
	if !info.Watertight {
		t.Fatal("cube must analyze watertight")
	}
	if math.Abs(info.Volume-1000) > 1e-9 {
		t.Errorf("volume: got %g, want 1000", info.Volume)
	}
	if math.Abs(info.MinEdgeLen-10) > 1e-9 {
		t.Errorf("min edge: got %g, want 10", info.MinEdgeLen)
	}
	if math.Abs(info.MaxEdgeLen-10*math.Sqrt2) > 1e-9 {
		t.Errorf("max edge: got %g, want %g", info.MaxEdgeLen, 10*math.Sqrt2)
	}
	if info.AvgEdgeLen <= info.MinEdgeLen || info.AvgEdgeLen >= info.MaxEdgeLen {
		t.Errorf("avg edge %g outside [min, max]", info.AvgEdgeLen)
	}
}

func TestAnalyzeEmptyMesh(t *testing.T) {
	info := Analyze(FromTriangles(nil, 0))
	if info.EdgeCount != 0 || info.MinEdgeLen != 0 || info.Watertight {
		t.Errorf("empty analysis: %+v", info)
	}
}
