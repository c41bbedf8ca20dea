package meshedit

import (
	"math"

	"github.com/printforge/meshedit/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Scaler operations. Every variant returns a new mesh plus before/after
// dimensions in the Stats record; volume delta is reported when both
// states are watertight.

// ScaleUniform scales the mesh isotropically by factor about its
// bounding box center, so off-origin meshes grow in place instead of
// drifting away.
func ScaleUniform(m *Mesh, factor float64) (*Mesh, Stats, error) {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return nil, Stats{}, invalidParamf("scale factor %g must be finite and positive", factor)
	}
	return applyScale(m, d3.Elem(factor), "scale_uniform")
}

// ScaleNonUniform scales the mesh by independent per-axis factors.
func ScaleNonUniform(m *Mesh, sx, sy, sz float64) (*Mesh, Stats, error) {
	for _, f := range [3]float64{sx, sy, sz} {
		if f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, Stats{}, invalidParamf("scale factor %g must be finite and positive", f)
		}
	}
	return applyScale(m, r3.Vec{X: sx, Y: sy, Z: sz}, "scale_non_uniform")
}

// ScaleToDimensions scales the mesh so its extents match the specified
// targets. Unspecified targets are passed as NaN. With maintainAspect all
// three axes use the mean of the explicitly specified factors, so
// unspecified axes follow the aspect ratio instead of staying unscaled.
func ScaleToDimensions(m *Mesh, width, height, depth float64, maintainAspect bool) (*Mesh, Stats, error) {
	ext := m.Extents()
	targets := [3]float64{width, height, depth}
	var factors [3]float64
	var specified []float64
	for i, t := range targets {
		if math.IsNaN(t) {
			factors[i] = 1
			continue
		}
		cur := d3.Axis(ext, i)
		if t <= 0 {
			return nil, Stats{}, invalidParamf("target dimension %g must be positive", t)
		}
		if cur == 0 {
			return nil, Stats{}, preconditionf("mesh has zero extent along axis %d", i)
		}
		factors[i] = t / cur
		specified = append(specified, factors[i])
	}
	if len(specified) == 0 {
		return nil, Stats{}, invalidParamf("at least one target dimension is required")
	}
	if maintainAspect {
		var mean float64
		for _, f := range specified {
			mean += f
		}
		mean /= float64(len(specified))
		factors = [3]float64{mean, mean, mean}
	}
	return applyScale(m, r3.Vec{X: factors[0], Y: factors[1], Z: factors[2]}, "scale_to_dimensions")
}

// ScaleToFit uniformly shrinks the mesh so its largest extent equals
// maxDimension. Meshes already within the bound are returned unchanged.
func ScaleToFit(m *Mesh, maxDimension float64) (*Mesh, Stats, error) {
	if maxDimension <= 0 {
		return nil, Stats{}, invalidParamf("max dimension %g must be positive", maxDimension)
	}
	cur := d3.Max(m.Extents())
	if cur <= maxDimension {
		stats := newStats("scale_to_fit", m)
		out := m.Clone()
		stats.warnf("mesh already fits within %g", maxDimension)
		stats.finish(out)
		return out, stats, nil
	}
	return applyScale(m, d3.Elem(maxDimension/cur), "scale_to_fit")
}

// ScaleToVolume scales the mesh uniformly so its enclosed volume equals
// targetVolume. The mesh must be watertight for volume to be defined;
// otherwise the input is returned unchanged with ErrPreconditionUnmet.
func ScaleToVolume(m *Mesh, targetVolume float64) (*Mesh, Stats, error) {
	if targetVolume <= 0 {
		return nil, Stats{}, invalidParamf("target volume %g must be positive", targetVolume)
	}
	vol, ok := m.Volume()
	if !ok || vol == 0 {
		return nil, Stats{}, preconditionf("volume scaling requires a watertight mesh")
	}
	factor := math.Cbrt(targetVolume / vol)
	return applyScale(m, d3.Elem(factor), "scale_to_volume")
}

func applyScale(m *Mesh, factors r3.Vec, op string) (*Mesh, Stats, error) {
	stats := newStats(op, m)
	out := m.Clone()
	out.transform(d3.Scaling(m.Center(), factors))
	stats.finish(out)
	return out, stats, nil
}
