package meshedit

import (
	"math"

	"github.com/printforge/meshedit/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// MeshInfo is a read-only analysis snapshot of a mesh.
type MeshInfo struct {
	Vertices    int
	Faces       int
	Bounds      d3.Box
	Extents     r3.Vec
	SurfaceArea float64
	Watertight  bool
	// Volume is only meaningful when Watertight is true.
	Volume float64

	EdgeCount  int
	MinEdgeLen float64
	MaxEdgeLen float64
	AvgEdgeLen float64
}

// Analyze computes a MeshInfo for m. Edge statistics count each
// undirected edge once.
func Analyze(m *Mesh) MeshInfo {
	info := MeshInfo{
		Vertices:    m.VertexCount(),
		Faces:       m.FaceCount(),
		Bounds:      m.Bounds(),
		Extents:     m.Extents(),
		SurfaceArea: m.SurfaceArea(),
		Watertight:  m.IsWatertight(),
	}
	if info.Watertight {
		info.Volume, _ = m.Volume()
	}

	seen := make(map[[2]int]struct{}, 3*m.FaceCount()/2)
	var sum float64
	info.MinEdgeLen = math.Inf(1)
	for i := 0; i < m.FaceCount(); i++ {
		f := m.Face(i)
		for j := 0; j < 3; j++ {
			a, b := f[j], f[(j+1)%3]
			if a > b {
				a, b = b, a
			}
			key := [2]int{a, b}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			l := r3.Norm(r3.Sub(m.Vertex(a), m.Vertex(b)))
			sum += l
			if l < info.MinEdgeLen {
				info.MinEdgeLen = l
			}
			if l > info.MaxEdgeLen {
				info.MaxEdgeLen = l
			}
		}
	}
	info.EdgeCount = len(seen)
	if info.EdgeCount > 0 {
		info.AvgEdgeLen = sum / float64(info.EdgeCount)
	} else {
		info.MinEdgeLen = 0
	}
	return info
}
