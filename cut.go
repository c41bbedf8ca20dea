package meshedit

import (
	"math"

	"github.com/printforge/meshedit/internal/d3"
)

// PositionMode controls how the Cutter interprets its position parameter.
type PositionMode int

const (
	// Absolute treats position as a literal coordinate along the axis.
	Absolute PositionMode = iota
	// Percentage interpolates position in [0,100] between the bounding
	// box minimum and maximum along the axis.
	Percentage
	// CenterOffset adds position to the bounding box center coordinate.
	CenterOffset
)

func (pm PositionMode) valid() bool { return pm >= Absolute && pm <= CenterOffset }

// ParsePositionMode converts "absolute", "percentage" or "center-offset".
func ParsePositionMode(s string) (PositionMode, error) {
	switch s {
	case "absolute":
		return Absolute, nil
	case "percentage":
		return Percentage, nil
	case "center-offset", "offset":
		return CenterOffset, nil
	}
	return 0, invalidParamf("position mode must be absolute, percentage or center-offset; got %q", s)
}

// KeepPart selects which side of the cut plane survives.
type KeepPart int

const (
	// KeepTop keeps the side with greater coordinates along the axis.
	KeepTop KeepPart = iota
	// KeepBottom keeps the side with smaller coordinates.
	KeepBottom
	// KeepBoth returns both halves.
	KeepBoth
)

func (kp KeepPart) valid() bool { return kp >= KeepTop && kp <= KeepBoth }

// ParseKeepPart converts "top", "bottom" or "both".
func ParseKeepPart(s string) (KeepPart, error) {
	switch s {
	case "top":
		return KeepTop, nil
	case "bottom":
		return KeepBottom, nil
	case "both":
		return KeepBoth, nil
	}
	return 0, invalidParamf("keep part must be top, bottom or both; got %q", s)
}

// CutResult carries the output of a Cut. Mesh is set unless KeepBoth was
// requested, in which case Top and Bottom are set instead.
type CutResult struct {
	Mesh   *Mesh
	Top    *Mesh
	Bottom *Mesh
	Stats  Stats
}

// Cut splits the mesh with the plane perpendicular to axis at the given
// position. With cap=true each kept half is closed along the cut boundary
// so a watertight input yields watertight parts. If the plane does not
// intersect the mesh the input is returned unmodified with PartsCreated=0;
// that is a non-fatal condition the caller interprets.
func Cut(m *Mesh, axis Axis, position float64, mode PositionMode, keep KeepPart, cap bool) (CutResult, error) {
	if !axis.valid() {
		return CutResult{}, invalidParamf("axis %v", axis)
	}
	if !mode.valid() {
		return CutResult{}, invalidParamf("position mode %d", mode)
	}
	if !keep.valid() {
		return CutResult{}, invalidParamf("keep part %d", keep)
	}
	pos, err := resolvePosition(m, axis, position, mode)
	if err != nil {
		return CutResult{}, err
	}

	stats := newStats("cut", m)
	work := m.Clone()

	bb := work.Bounds()
	dim := int(axis)
	if pos <= d3.Axis(bb.Min, dim) || pos >= d3.Axis(bb.Max, dim) {
		// Plane misses the mesh. Non-fatal: report zero parts.
		stats.warnf("cut plane at %v=%g does not intersect mesh bounds", axis, pos)
		stats.finish(work)
		res := CutResult{Mesh: work, Stats: stats}
		if keep == KeepBoth {
			res.Mesh = nil
			res.Top = work
		}
		return res, nil
	}

	pl := axisPlane(axis, pos)
	var res CutResult
	if keep == KeepTop || keep == KeepBoth {
		top, err := keepSide(work, pl, cap)
		if err != nil {
			return CutResult{}, err
		}
		res.Top = top
		stats.PartsCreated++
	}
	if keep == KeepBottom || keep == KeepBoth {
		bottom, err := keepSide(work, pl.flip(), cap)
		if err != nil {
			return CutResult{}, err
		}
		res.Bottom = bottom
		stats.PartsCreated++
	}

	switch keep {
	case KeepTop:
		res.Mesh = res.Top
		res.Top = nil
	case KeepBottom:
		res.Mesh = res.Bottom
		res.Bottom = nil
	}

	final := res.Mesh
	if final == nil {
		final = res.Top
	}
	stats.finish(final)
	res.Stats = stats
	return res, nil
}

// keepSide returns the half of m on the positive side of pl, optionally
// capped along the cut boundary.
func keepSide(m *Mesh, pl plane, cap bool) (*Mesh, error) {
	kept, chords := sliceMesh(m, pl)
	if cap && len(chords) > 0 {
		tol := 1e-9 * math.Max(1, d3.Max(m.Extents()))
		loops := chainLoops(chords, tol)
		caps, err := capLoops(pl, loops)
		if err != nil {
			return nil, err
		}
		kept = append(kept, caps...)
	}
	weld := 1e-9 * math.Max(1, d3.Max(m.Extents()))
	return FromTriangles(kept, weld), nil
}

func resolvePosition(m *Mesh, axis Axis, position float64, mode PositionMode) (float64, error) {
	dim := int(axis)
	bb := m.Bounds()
	switch mode {
	case Absolute:
		return position, nil
	case Percentage:
		if position < 0 || position > 100 {
			return 0, invalidParamf("percentage position %g outside [0,100]", position)
		}
		lo := d3.Axis(bb.Min, dim)
		hi := d3.Axis(bb.Max, dim)
		return lo + (hi-lo)*position/100, nil
	case CenterOffset:
		return d3.Axis(bb.Center(), dim) + position, nil
	}
	return 0, invalidParamf("position mode %d", mode)
}

// CutAtHeight cuts perpendicular to Z at an absolute height, a common
// print-bed operation.
func CutAtHeight(m *Mesh, height float64, keep KeepPart, cap bool) (CutResult, error) {
	return Cut(m, AxisZ, height, Absolute, keep, cap)
}

// RemoveTop removes everything above the given offset from the bounding
// box center along axis, keeping the bottom part capped.
func RemoveTop(m *Mesh, axis Axis, offset float64) (CutResult, error) {
	return Cut(m, axis, offset, CenterOffset, KeepBottom, true)
}

// RemoveBottom removes everything below the given offset from the
// bounding box center along axis, keeping the top part capped.
func RemoveBottom(m *Mesh, axis Axis, offset float64) (CutResult, error) {
	return Cut(m, axis, offset, CenterOffset, KeepTop, true)
}

// SplitInHalf splits the mesh at the bounding box center along axis into
// two capped parts.
func SplitInHalf(m *Mesh, axis Axis) (top, bottom *Mesh, stats Stats, err error) {
	res, err := Cut(m, axis, 50, Percentage, KeepBoth, true)
	if err != nil {
		return nil, nil, Stats{}, err
	}
	return res.Top, res.Bottom, res.Stats, nil
}
