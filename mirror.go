package meshedit

import (
	"github.com/printforge/meshedit/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Side selects the half of the mesh kept when symmetrizing.
type Side int

const (
	// SidePositive keeps the half with greater coordinates along the axis.
	SidePositive Side = iota
	// SideNegative keeps the half with smaller coordinates.
	SideNegative
)

// ParseSide converts "positive"/"top" or "negative"/"bottom".
func ParseSide(s string) (Side, error) {
	switch s {
	case "positive", "top", "+":
		return SidePositive, nil
	case "negative", "bottom", "-":
		return SideNegative, nil
	}
	return 0, invalidParamf("side must be positive or negative; got %q", s)
}

// Mirror reflects the mesh about the plane perpendicular to axis through
// the bounding box center. Reflection flips face winding, so windings are
// inverted afterwards to keep normals outward. With merge=true the result
// is the original plus its reflection concatenated without deduplicating
// shared boundary vertices; run the Repairer to weld them.
func Mirror(m *Mesh, axis Axis, merge bool) (*Mesh, Stats, error) {
	if !axis.valid() {
		return nil, Stats{}, invalidParamf("axis %v", axis)
	}
	return mirrorPlane(m, m.Center(), axis.Vec(), merge, "mirror")
}

// MirrorPlane reflects the mesh about an arbitrary plane given by a point
// and a normal, using the Householder reflection
//
//	x' = x - 2((x-p)·n) n.
func MirrorPlane(m *Mesh, point, normal r3.Vec, merge bool) (*Mesh, Stats, error) {
	if r3.Norm(normal) == 0 {
		return nil, Stats{}, invalidParamf("mirror plane normal is zero")
	}
	return mirrorPlane(m, point, normal, merge, "mirror_plane")
}

func mirrorPlane(m *Mesh, point, normal r3.Vec, merge bool, op string) (*Mesh, Stats, error) {
	stats := newStats(op, m)
	mirrored := m.Clone()
	// transform flips winding back automatically for det<0 transforms.
	mirrored.transform(d3.Reflection(point, normal))
	if !merge {
		stats.finish(mirrored)
		return mirrored, stats, nil
	}
	out := m.Clone()
	out.append(mirrored)
	stats.PartsCreated = 2
	stats.finish(out)
	return out, stats, nil
}

// Symmetrize slices the mesh at the center plane perpendicular to axis,
// keeps one side, and merges it with its own reflection. The result is
// perfectly symmetric about the plane; any unique geometry on the
// discarded side is lost.
func Symmetrize(m *Mesh, axis Axis, keep Side) (*Mesh, Stats, error) {
	if !axis.valid() {
		return nil, Stats{}, invalidParamf("axis %v", axis)
	}
	stats := newStats("symmetrize", m)
	center := m.Center()
	pl := axisPlane(axis, d3.Axis(center, int(axis)))
	if keep == SideNegative {
		pl = pl.flip()
	}

	work := m.Clone()
	half, err := keepSide(work, pl, false)
	if err != nil {
		return nil, Stats{}, err
	}
	if half.IsEmpty() {
		stats.fail("symmetrize: kept side is empty")
		stats.finish(work)
		return work, stats, nil
	}
	mirroredHalf := half.Clone()
	mirroredHalf.transform(d3.Reflection(center, pl.n))
	half.append(mirroredHalf)
	// Seam vertices are duplicated by the concatenation; weld them.
	out := FromTriangles(half.Triangles(), 0)
	stats.finish(out)
	return out, stats, nil
}

// AutoSymmetrize symmetrizes about the axis of the largest bounding box
// extent. This is a heuristic: the largest extent is not necessarily the
// true symmetry axis, but true symmetry detection is out of scope.
func AutoSymmetrize(m *Mesh) (*Mesh, Stats, error) {
	ext := m.Extents()
	axis := AxisX
	if ext.Y > d3.Axis(ext, int(axis)) {
		axis = AxisY
	}
	if ext.Z > d3.Axis(ext, int(axis)) {
		axis = AxisZ
	}
	return Symmetrize(m, axis, SidePositive)
}
