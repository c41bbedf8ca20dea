package meshedit

import "fmt"

// Stats is the read-only diagnostic record returned by every operation.
// It captures the mesh state before and after the transform; it is never
// consulted by later operations.
type Stats struct {
	Op string

	VerticesBefore int
	VerticesAfter  int
	FacesBefore    int
	FacesAfter     int

	WatertightBefore bool
	WatertightAfter  bool

	// VolumeBefore and VolumeAfter are valid only when the corresponding
	// watertight flag is set. VolumeDelta (after-before) is valid only
	// when both are.
	VolumeBefore     float64
	VolumeAfter      float64
	VolumeDelta      float64
	VolumeDeltaValid bool

	// PartsCreated counts output parts for splitting operations. A cut
	// whose plane misses the mesh reports zero.
	PartsCreated int

	// EngineUsed names the boolean engine that produced the result, for
	// operations that consult the fallback chain.
	EngineUsed string

	// Failed is set when the operation could not change the mesh and
	// returned its input unmodified. The reason is appended to Warnings.
	Failed   bool
	Warnings []string
}

func newStats(op string, m *Mesh) Stats {
	s := Stats{
		Op:             op,
		VerticesBefore: m.VertexCount(),
		FacesBefore:    m.FaceCount(),
	}
	s.WatertightBefore = m.IsWatertight()
	if s.WatertightBefore {
		s.VolumeBefore, _ = m.Volume()
	}
	return s
}

func (s *Stats) finish(m *Mesh) {
	s.VerticesAfter = m.VertexCount()
	s.FacesAfter = m.FaceCount()
	s.WatertightAfter = m.IsWatertight()
	if s.WatertightAfter {
		s.VolumeAfter, _ = m.Volume()
	}
	if s.WatertightBefore && s.WatertightAfter {
		s.VolumeDelta = s.VolumeAfter - s.VolumeBefore
		s.VolumeDeltaValid = true
	}
}

func (s *Stats) warnf(format string, args ...any) {
	s.Warnings = append(s.Warnings, fmt.Sprintf(format, args...))
}

func (s *Stats) fail(reason string) {
	s.Failed = true
	s.Warnings = append(s.Warnings, reason)
}
