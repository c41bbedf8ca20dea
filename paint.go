package meshedit

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Paint blends color into the per-vertex color attribute around center.
// The blend weight falls off linearly with distance and is raised to
// falloffPower for a smoother gradient. Painting never touches
// geometry.
func Paint(m *Mesh, center r3.Vec, radius float64, color [3]float64, falloffPower float64) (*Mesh, Stats, error) {
	if radius <= 0 {
		return nil, Stats{}, invalidParamf("paint radius %g must be positive", radius)
	}
	if falloffPower <= 0 {
		falloffPower = 1
	}
	stats := newStats("paint", m)
	out := m.Clone()
	out.ensureColors()
	painted := 0
	for i, v := range out.vertices {
		d := r3.Norm(r3.Sub(v, center))
		if d > radius {
			continue
		}
		w := math.Pow(1-d/radius, falloffPower)
		for c := 0; c < 3; c++ {
			out.colors[i][c] = out.colors[i][c]*(1-w) + color[c]*w
		}
		painted++
	}
	if painted == 0 {
		stats.warnf("no vertex within radius %g of %v", radius, center)
	}
	stats.finish(out)
	return out, stats, nil
}
