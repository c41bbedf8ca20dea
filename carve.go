package meshedit

import (
	"math"

	"github.com/printforge/meshedit/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Profile is the channel cross-section shape.
type Profile int

const (
	// ProfileRect carves a rectangular groove.
	ProfileRect Profile = iota
	// ProfileV carves a triangular groove tapering to a point.
	ProfileV
	// ProfileU carves a rectangular groove with a rounded bottom.
	ProfileU
)

// ParseProfile converts "rect", "v" or "u".
func ParseProfile(s string) (Profile, error) {
	switch s {
	case "rect", "rectangular", "square":
		return ProfileRect, nil
	case "v":
		return ProfileV, nil
	case "u", "round":
		return ProfileU, nil
	}
	return 0, invalidParamf("profile must be rect, v or u; got %q", s)
}

// ChannelParams describes the groove carved along every segment of a
// pattern. Up is the surface normal the depth is measured against and
// defaults to +Z.
type ChannelParams struct {
	Width   float64
	Depth   float64
	Profile Profile
	Up      r3.Vec
}

func (p ChannelParams) withDefaults() (ChannelParams, error) {
	if p.Width <= 0 {
		return p, invalidParamf("channel width %g must be positive", p.Width)
	}
	if p.Depth <= 0 {
		return p, invalidParamf("channel depth %g must be positive", p.Depth)
	}
	if p.Profile < ProfileRect || p.Profile > ProfileU {
		return p, invalidParamf("channel profile %d", p.Profile)
	}
	if r3.Norm(p.Up) == 0 {
		p.Up = r3.Vec{Z: 1}
	}
	p.Up = r3.Unit(p.Up)
	return p, nil
}

// profilePolygon builds the groove cross-section in the (across, up)
// frame. v=0 is the surface; the polygon reaches above it so the
// subtraction clears the surface cleanly.
func profilePolygon(p ChannelParams) []r2.Vec {
	w := p.Width / 2
	over := p.Depth / 2
	switch p.Profile {
	case ProfileV:
		return []r2.Vec{{X: 0, Y: -p.Depth}, {X: w, Y: over}, {X: -w, Y: over}}
	case ProfileU:
		r := w
		if r > p.Depth {
			r = p.Depth
		}
		cy := -(p.Depth - r)
		poly := []r2.Vec{{X: -w, Y: over}, {X: -w, Y: cy}}
		const arcSteps = 8
		for i := 1; i < arcSteps; i++ {
			ang := math.Pi + math.Pi*float64(i)/arcSteps
			poly = append(poly, r2.Vec{X: r * math.Cos(ang), Y: cy + r*math.Sin(ang)})
		}
		poly = append(poly, r2.Vec{X: w, Y: cy}, r2.Vec{X: w, Y: over})
		return poly
	default:
		return []r2.Vec{
			{X: -w, Y: -p.Depth}, {X: w, Y: -p.Depth},
			{X: w, Y: over}, {X: -w, Y: over},
		}
	}
}

// Segment is one straight channel between two surface points.
type Segment struct {
	Start, End r3.Vec
}

// Carve subtracts one groove solid per segment from the mesh. Failed
// segments are skipped and recorded as warnings; the returned mesh is
// the best cumulative result.
func Carve(m *Mesh, engine Engine, segments []Segment, params ChannelParams) (*Mesh, Stats, error) {
	return carve(m, engine, segments, params, "carve")
}

func carve(m *Mesh, engine Engine, segments []Segment, params ChannelParams, op string) (*Mesh, Stats, error) {
	params, err := params.withDefaults()
	if err != nil {
		return nil, Stats{}, err
	}
	if engine == nil {
		return nil, Stats{}, invalidParamf("carve requires a boolean engine")
	}
	if len(segments) == 0 {
		return nil, Stats{}, invalidParamf("carve requires at least one segment")
	}
	stats := newStats(op, m)
	work := m.Clone()
	profile := profilePolygon(params)
	carved := 0
	for i, seg := range segments {
		tool, err := prismSolid(seg.Start, seg.End, profile, params.Up)
		if err != nil {
			stats.warnf("segment %d: %v", i, err)
			continue
		}
		out, err := engine.Boolean(work, tool, OpDifference)
		if err != nil || out == nil || out.IsEmpty() {
			stats.warnf("segment %d: subtraction failed: %v", i, err)
			continue
		}
		work = out
		carved++
	}
	if carved == 0 {
		stats.fail("no channel segment could be carved")
	} else {
		stats.EngineUsed = engine.Name()
		stats.PartsCreated = carved
	}
	stats.finish(work)
	return work, stats, nil
}

// CarveLinear carves a single straight channel between two points.
func CarveLinear(m *Mesh, engine Engine, start, end r3.Vec, params ChannelParams) (*Mesh, Stats, error) {
	return carve(m, engine, []Segment{{Start: start, End: end}}, params, "carve_linear")
}

// CarveRadial carves numChannels straight channels radiating from
// center at equal angular spacing, starting at startAngleDeg measured in
// the surface plane.
func CarveRadial(m *Mesh, engine Engine, center r3.Vec, numChannels int, length, startAngleDeg float64, params ChannelParams) (*Mesh, Stats, error) {
	if numChannels < 1 {
		return nil, Stats{}, invalidParamf("radial carve needs at least 1 channel, got %d", numChannels)
	}
	if length <= 0 {
		return nil, Stats{}, invalidParamf("radial channel length %g must be positive", length)
	}
	params, err := params.withDefaults()
	if err != nil {
		return nil, Stats{}, err
	}
	du, dv := surfaceBasis(params.Up)
	segs := make([]Segment, numChannels)
	for i := range segs {
		ang := (startAngleDeg + 360*float64(i)/float64(numChannels)) * math.Pi / 180
		dir := r3.Add(r3.Scale(math.Cos(ang), du), r3.Scale(math.Sin(ang), dv))
		segs[i] = Segment{Start: center, End: r3.Add(center, r3.Scale(length, dir))}
	}
	return carve(m, engine, segs, params, "carve_radial")
}

// CarveSpiral samples a spiral of the given rotations between two radii
// and carves it as consecutive straight segments.
func CarveSpiral(m *Mesh, engine Engine, center r3.Vec, rotations, startRadius, endRadius float64, params ChannelParams) (*Mesh, Stats, error) {
	if rotations <= 0 {
		return nil, Stats{}, invalidParamf("spiral rotations %g must be positive", rotations)
	}
	if startRadius < 0 || endRadius <= 0 {
		return nil, Stats{}, invalidParamf("spiral radii must be non-negative with end radius positive")
	}
	params, err := params.withDefaults()
	if err != nil {
		return nil, Stats{}, err
	}
	du, dv := surfaceBasis(params.Up)
	const stepsPerRotation = 24
	steps := int(math.Ceil(rotations * stepsPerRotation))
	pts := make([]r3.Vec, steps+1)
	for i := 0; i <= steps; i++ {
		f := float64(i) / float64(steps)
		ang := f * rotations * 2 * math.Pi
		radius := startRadius + f*(endRadius-startRadius)
		dir := r3.Add(r3.Scale(math.Cos(ang), du), r3.Scale(math.Sin(ang), dv))
		pts[i] = r3.Add(center, r3.Scale(radius, dir))
	}
	segs := make([]Segment, steps)
	for i := range segs {
		segs[i] = Segment{Start: pts[i], End: pts[i+1]}
	}
	return carve(m, engine, segs, params, "carve_spiral")
}

// CarveGrid carves two perpendicular families of parallel channels at
// the given spacing across the mesh's top surface.
func CarveGrid(m *Mesh, engine Engine, spacing float64, params ChannelParams) (*Mesh, Stats, error) {
	if spacing <= 0 {
		return nil, Stats{}, invalidParamf("grid spacing %g must be positive", spacing)
	}
	params, err := params.withDefaults()
	if err != nil {
		return nil, Stats{}, err
	}
	bb := m.Bounds()
	du, dv := surfaceBasis(params.Up)
	// Top of the mesh along the up direction.
	top := r3.Dot(params.Up, bb.Max)
	if params.Up.X+params.Up.Y+params.Up.Z < 0 {
		top = r3.Dot(params.Up, bb.Min)
	}
	center := bb.Center()
	origin := r3.Add(center, r3.Scale(top-r3.Dot(params.Up, center), params.Up))

	extentU := projectedExtent(bb, du)
	extentV := projectedExtent(bb, dv)
	var segs []Segment
	for off := -extentU / 2; off <= extentU/2; off += spacing {
		base := r3.Add(origin, r3.Scale(off, du))
		segs = append(segs, Segment{
			Start: r3.Add(base, r3.Scale(-extentV/2, dv)),
			End:   r3.Add(base, r3.Scale(extentV/2, dv)),
		})
	}
	for off := -extentV / 2; off <= extentV/2; off += spacing {
		base := r3.Add(origin, r3.Scale(off, dv))
		segs = append(segs, Segment{
			Start: r3.Add(base, r3.Scale(-extentU/2, du)),
			End:   r3.Add(base, r3.Scale(extentU/2, du)),
		})
	}
	return carve(m, engine, segs, params, "carve_grid")
}

// CarvePath carves consecutive straight channels through the given
// waypoints.
func CarvePath(m *Mesh, engine Engine, points []r3.Vec, params ChannelParams) (*Mesh, Stats, error) {
	if len(points) < 2 {
		return nil, Stats{}, invalidParamf("path carve needs at least 2 points, got %d", len(points))
	}
	segs := make([]Segment, len(points)-1)
	for i := range segs {
		segs[i] = Segment{Start: points[i], End: points[i+1]}
	}
	return carve(m, engine, segs, params, "carve_path")
}

// surfaceBasis returns two orthonormal directions spanning the plane
// perpendicular to up.
func surfaceBasis(up r3.Vec) (r3.Vec, r3.Vec) {
	ref := r3.Vec{X: 1}
	if math.Abs(up.X) > 0.9 {
		ref = r3.Vec{Y: 1}
	}
	du := r3.Unit(r3.Cross(up, ref))
	dv := r3.Unit(r3.Cross(up, du))
	return du, dv
}

func projectedExtent(bb d3.Box, dir r3.Vec) float64 {
	size := bb.Size()
	return math.Abs(size.X*dir.X) + math.Abs(size.Y*dir.Y) + math.Abs(size.Z*dir.Z)
}
