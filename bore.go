package meshedit

import (
	"math"
	"sort"

	"github.com/printforge/meshedit/internal/d2"
	"github.com/printforge/meshedit/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Hole is a detected cylindrical through-hole candidate.
type Hole struct {
	Center r3.Vec
	Axis   Axis
	Radius float64
}

// DetectHoles sweeps the three axes, slicing the mesh at its bounding
// box mid-coordinate along each, and inspects the cross-section loops.
// A loop nested inside another loop is an inner boundary, hence a hole
// candidate; its radius is the mean distance of the loop points from
// their centroid. Candidates outside [minRadius, maxRadius] are
// discarded.
func DetectHoles(m *Mesh, minRadius, maxRadius float64) ([]Hole, error) {
	if minRadius < 0 || maxRadius <= 0 || minRadius >= maxRadius {
		return nil, invalidParamf("radius range [%g, %g] is invalid", minRadius, maxRadius)
	}
	if m.IsEmpty() {
		return nil, preconditionf("hole detection on an empty mesh")
	}
	bb := m.Bounds()
	var holes []Hole
	for _, axis := range [3]Axis{AxisX, AxisY, AxisZ} {
		mid := d3.Axis(bb.Center(), int(axis))
		pl := axisPlane(axis, mid)
		loops := crossSection(m, pl)
		holes = append(holes, classifyHoleLoops(pl, axis, loops, minRadius, maxRadius)...)
	}
	// Stable report order: largest first, then by axis.
	sort.Slice(holes, func(i, j int) bool {
		if holes[i].Radius != holes[j].Radius {
			return holes[i].Radius > holes[j].Radius
		}
		return holes[i].Axis < holes[j].Axis
	})
	return holes, nil
}

// classifyHoleLoops keeps loops nested inside some other loop of the
// same cross-section and estimates their radius.
func classifyHoleLoops(pl plane, axis Axis, loops [][]r3.Vec, minRadius, maxRadius float64) []Hole {
	u, v := pl.basis()
	flat := make([][]r2.Vec, len(loops))
	for i, loop := range loops {
		flat[i] = make([]r2.Vec, len(loop))
		for j, p := range loop {
			flat[i][j] = pl.project(u, v, p)
		}
	}
	var holes []Hole
	for i, loop := range loops {
		inner := false
		probe := flat[i][0]
		for j := range loops {
			if j == i {
				continue
			}
			if d2.InPolygon(probe, flat[j]) {
				inner = true
				break
			}
		}
		if !inner {
			continue
		}
		center, radius := loopCircle(loop)
		if radius < minRadius || radius > maxRadius {
			continue
		}
		holes = append(holes, Hole{Center: center, Axis: axis, Radius: radius})
	}
	return holes
}

// loopCircle estimates the centroid and mean radius of a 3D loop.
func loopCircle(loop []r3.Vec) (r3.Vec, float64) {
	var c r3.Vec
	for _, p := range loop {
		c = r3.Add(c, p)
	}
	c = r3.Scale(1/float64(len(loop)), c)
	var radius float64
	for _, p := range loop {
		radius += r3.Norm(r3.Sub(p, c))
	}
	return c, radius / float64(len(loop))
}

// WidenHole enlarges a detected hole by subtracting a cylinder of
// newRadius aligned with the hole axis. heightRange limits the cylinder
// span along the axis; nil spans the full mesh extent plus margin.
// newRadius must exceed the current radius; otherwise the input is
// returned unchanged with a warning.
func WidenHole(m *Mesh, engine Engine, hole Hole, newRadius float64, heightRange *[2]float64) (*Mesh, Stats, error) {
	if engine == nil {
		return nil, Stats{}, invalidParamf("hole widening requires a boolean engine")
	}
	if newRadius <= 0 {
		return nil, Stats{}, invalidParamf("new radius %g must be positive", newRadius)
	}
	if !hole.Axis.valid() {
		return nil, Stats{}, invalidParamf("axis %v", hole.Axis)
	}
	stats := newStats("widen_hole", m)
	if newRadius <= hole.Radius {
		out := m.Clone()
		stats.warnf("new radius %g does not exceed current radius %g; no-op", newRadius, hole.Radius)
		stats.finish(out)
		return out, stats, nil
	}

	dim := int(hole.Axis)
	var lo, hi float64
	if heightRange != nil {
		lo, hi = heightRange[0], heightRange[1]
		if lo >= hi {
			return nil, Stats{}, invalidParamf("height range [%g, %g] is empty", lo, hi)
		}
	} else {
		bb := m.Bounds()
		lo = d3.Axis(bb.Min, dim)
		hi = d3.Axis(bb.Max, dim)
		margin := 0.1 * (hi - lo)
		lo -= margin
		hi += margin
	}
	a := d3.SetAxis(hole.Center, dim, lo)
	b := d3.SetAxis(hole.Center, dim, hi)
	tool, err := cylinderSolid(a, b, newRadius, 64)
	if err != nil {
		return nil, Stats{}, err
	}

	work := m.Clone()
	if chain, ok := engine.(Chain); ok {
		res := chain.Run(work, tool, OpDifference)
		for _, at := range res.Attempts {
			if at.Err != nil {
				stats.warnf("engine %s: %v", at.Engine, at.Err)
			}
		}
		if !res.OK() {
			stats.fail(res.FailureReason())
			stats.finish(work)
			return work, stats, nil
		}
		stats.EngineUsed = res.Engine
		stats.finish(res.Mesh)
		return res.Mesh, stats, nil
	}
	out, err := engine.Boolean(work, tool, OpDifference)
	if err != nil || out == nil || out.IsEmpty() {
		stats.fail("subtraction failed")
		if err != nil {
			stats.warnf("engine %s: %v", engine.Name(), err)
		}
		stats.finish(work)
		return work, stats, nil
	}
	stats.EngineUsed = engine.Name()
	stats.finish(out)
	return out, stats, nil
}

// WidenCentralHole detects holes in [minRadius, maxRadius] and widens
// the one whose center lies nearest the mesh centroid.
func WidenCentralHole(m *Mesh, engine Engine, minRadius, maxRadius, newRadius float64) (*Mesh, Stats, error) {
	holes, err := DetectHoles(m, minRadius, maxRadius)
	if err != nil {
		return nil, Stats{}, err
	}
	if len(holes) == 0 {
		return nil, Stats{}, preconditionf("no hole detected in radius range [%g, %g]", minRadius, maxRadius)
	}
	center := m.Center()
	best := holes[0]
	bestDist := math.Inf(1)
	for _, h := range holes {
		if d := r3.Norm(r3.Sub(h.Center, center)); d < bestDist {
			best, bestDist = h, d
		}
	}
	return WidenHole(m, engine, best, newRadius, nil)
}
