// Package meshedit edits triangulated surface meshes for 3D printing and
// fabrication: plane cuts, mirroring and symmetrizing, automated repair,
// dimensional scaling, procedural channel carving and hole widening.
//
// Every operation treats its input mesh as immutable: the mesh is cloned
// on entry and a new mesh is returned together with a Stats record. Given
// identical inputs an operation always produces identical outputs.
package meshedit

import (
	"fmt"
	"math"

	"github.com/printforge/meshedit/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Axis selects one of the three coordinate axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return "axis(" + fmt.Sprint(int(a)) + ")"
}

// Vec returns the unit vector along the axis.
func (a Axis) Vec() r3.Vec { return d3.Basis(int(a)) }

func (a Axis) valid() bool { return a >= AxisX && a <= AxisZ }

// ParseAxis converts "x", "y" or "z" to an Axis.
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "x", "X":
		return AxisX, nil
	case "y", "Y":
		return AxisY, nil
	case "z", "Z":
		return AxisZ, nil
	}
	return 0, invalidParamf("axis must be one of x, y, z; got %q", s)
}

// Triangle is a triangle in 3D space defined by its three vertices.
type Triangle struct {
	V [3]r3.Vec
}

// Normal returns the unit normal of the triangle assuming counter-clockwise
// winding seen from outside. Returns the zero vector for degenerate triangles.
func (t Triangle) Normal() r3.Vec {
	n := r3.Cross(r3.Sub(t.V[1], t.V[0]), r3.Sub(t.V[2], t.V[0]))
	if r3.Norm(n) == 0 {
		return r3.Vec{}
	}
	return r3.Unit(n)
}

// Area returns the triangle area.
func (t Triangle) Area() float64 {
	n := r3.Cross(r3.Sub(t.V[1], t.V[0]), r3.Sub(t.V[2], t.V[0]))
	return 0.5 * r3.Norm(n)
}

// Centroid returns the triangle centroid.
func (t Triangle) Centroid() r3.Vec {
	return r3.Scale(1./3., r3.Add(r3.Add(t.V[0], t.V[1]), t.V[2]))
}

// Mesh is an indexed triangle mesh. The vertex and face buffers are owned
// by the mesh; callers must not retain slices returned by accessors across
// operations. Operations never mutate their input mesh.
type Mesh struct {
	vertices []r3.Vec
	faces    [][3]int
	// colors holds optional per-vertex paint, RGB in [0,1].
	// Either empty or len(vertices).
	colors [][3]float64

	// cached derived attributes, dropped on mutation.
	bounds     *d3.Box
	watertight *bool
}

// NewMesh builds a mesh from a vertex buffer and face index triples.
// The slices are copied. Face indices are validated against the vertex
// buffer.
func NewMesh(vertices []r3.Vec, faces [][3]int) (*Mesh, error) {
	for i, f := range faces {
		for _, idx := range f {
			if idx < 0 || idx >= len(vertices) {
				return nil, invalidParamf("face %d references vertex %d of %d", i, idx, len(vertices))
			}
		}
	}
	m := &Mesh{
		vertices: append([]r3.Vec(nil), vertices...),
		faces:    append([][3]int(nil), faces...),
	}
	return m, nil
}

// FromTriangles builds an indexed mesh from a triangle soup, welding
// vertices that land in the same weldTol-sized grid cell. If weldTol is
// zero a tolerance of 1e-9 of the largest model extent is used.
func FromTriangles(tris []Triangle, weldTol float64) *Mesh {
	if len(tris) == 0 {
		return &Mesh{}
	}
	if weldTol <= 0 {
		bb := d3.Box{Min: tris[0].V[0], Max: tris[0].V[0]}
		for _, t := range tris {
			for _, v := range t.V {
				bb = bb.Include(v)
			}
		}
		weldTol = 1e-9 * math.Max(d3.Max(bb.Size()), 1)
	}
	ri := 1 / weldTol
	cache := make(map[[3]int64]int, 3*len(tris)/2)
	m := &Mesh{faces: make([][3]int, 0, len(tris))}
	for _, t := range tris {
		var f [3]int
		for j, v := range t.V {
			key := [3]int64{
				int64(math.Round(v.X * ri)),
				int64(math.Round(v.Y * ri)),
				int64(math.Round(v.Z * ri)),
			}
			idx, ok := cache[key]
			if !ok {
				idx = len(m.vertices)
				cache[key] = idx
				m.vertices = append(m.vertices, v)
			}
			f[j] = idx
		}
		if f[0] == f[1] || f[1] == f[2] || f[2] == f[0] {
			continue // welded to nothing
		}
		m.faces = append(m.faces, f)
	}
	return m
}

// Clone returns a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	out := &Mesh{
		vertices: append([]r3.Vec(nil), m.vertices...),
		faces:    append([][3]int(nil), m.faces...),
	}
	if len(m.colors) != 0 {
		out.colors = append([][3]float64(nil), m.colors...)
	}
	return out
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.vertices) }

// FaceCount returns the number of triangular faces.
func (m *Mesh) FaceCount() int { return len(m.faces) }

// IsEmpty returns true if the mesh has no faces.
func (m *Mesh) IsEmpty() bool { return len(m.faces) == 0 }

// Vertex returns the position of vertex i.
func (m *Mesh) Vertex(i int) r3.Vec { return m.vertices[i] }

// Face returns the vertex indices of face i.
func (m *Mesh) Face(i int) [3]int { return m.faces[i] }

// Triangle returns face i as a Triangle.
func (m *Mesh) Triangle(i int) Triangle {
	f := m.faces[i]
	return Triangle{V: [3]r3.Vec{m.vertices[f[0]], m.vertices[f[1]], m.vertices[f[2]]}}
}

// Triangles returns all faces as a triangle soup.
func (m *Mesh) Triangles() []Triangle {
	out := make([]Triangle, len(m.faces))
	for i := range m.faces {
		out[i] = m.Triangle(i)
	}
	return out
}

// Vertices returns a copy of the vertex buffer.
func (m *Mesh) Vertices() []r3.Vec {
	return append([]r3.Vec(nil), m.vertices...)
}

// Faces returns a copy of the face index buffer.
func (m *Mesh) Faces() [][3]int {
	return append([][3]int(nil), m.faces...)
}

// Colors returns a copy of the per-vertex paint colors, or nil if the
// mesh has never been painted.
func (m *Mesh) Colors() [][3]float64 {
	if len(m.colors) == 0 {
		return nil
	}
	return append([][3]float64(nil), m.colors...)
}

// Bounds returns the axis-aligned bounding box.
func (m *Mesh) Bounds() d3.Box {
	if m.bounds != nil {
		return *m.bounds
	}
	var bb d3.Box
	if len(m.vertices) > 0 {
		bb = d3.Box{Min: m.vertices[0], Max: m.vertices[0]}
		for _, v := range m.vertices[1:] {
			bb = bb.Include(v)
		}
	}
	m.bounds = &bb
	return bb
}

// Extents returns the bounding box dimensions.
func (m *Mesh) Extents() r3.Vec { return m.Bounds().Size() }

// Center returns the bounding box center.
func (m *Mesh) Center() r3.Vec { return m.Bounds().Center() }

// SurfaceArea returns the sum of all face areas.
func (m *Mesh) SurfaceArea() float64 {
	var area float64
	for i := range m.faces {
		area += m.Triangle(i).Area()
	}
	return area
}

// IsWatertight reports whether every edge is shared by exactly two faces
// with consistent winding. The result is cached until the mesh is mutated.
func (m *Mesh) IsWatertight() bool {
	if m.watertight != nil {
		return *m.watertight
	}
	wt := m.checkWatertight()
	m.watertight = &wt
	return wt
}

func (m *Mesh) checkWatertight() bool {
	if len(m.faces) == 0 {
		return false
	}
	// Count directed edges. Consistent winding means every directed edge
	// appears exactly once and so does its reverse.
	directed := make(map[[2]int]int, 3*len(m.faces))
	for _, f := range m.faces {
		for j := 0; j < 3; j++ {
			e := [2]int{f[j], f[(j+1)%3]}
			directed[e]++
			if directed[e] > 1 {
				return false
			}
		}
	}
	for e := range directed {
		if directed[[2]int{e[1], e[0]}] != 1 {
			return false
		}
	}
	return true
}

// Volume returns the enclosed volume via the divergence theorem. The
// second return is false if the mesh is not watertight, in which case the
// volume is undefined.
func (m *Mesh) Volume() (float64, bool) {
	if !m.IsWatertight() {
		return 0, false
	}
	var vol float64
	for _, f := range m.faces {
		a, b, c := m.vertices[f[0]], m.vertices[f[1]], m.vertices[f[2]]
		vol += r3.Dot(a, r3.Cross(b, c))
	}
	vol /= 6
	return math.Abs(vol), true
}

// signedVolume is Volume without the watertightness gate and without the
// absolute value. Used to detect inward-facing orientation.
func (m *Mesh) signedVolume() float64 {
	var vol float64
	for _, f := range m.faces {
		a, b, c := m.vertices[f[0]], m.vertices[f[1]], m.vertices[f[2]]
		vol += r3.Dot(a, r3.Cross(b, c))
	}
	return vol / 6
}

// VertexNormals returns area-weighted per-vertex normals.
func (m *Mesh) VertexNormals() []r3.Vec {
	normals := make([]r3.Vec, len(m.vertices))
	for _, f := range m.faces {
		a, b, c := m.vertices[f[0]], m.vertices[f[1]], m.vertices[f[2]]
		n := r3.Cross(r3.Sub(b, a), r3.Sub(c, a)) // length ∝ 2·area
		for _, idx := range f {
			normals[idx] = r3.Add(normals[idx], n)
		}
	}
	for i, n := range normals {
		if r3.Norm(n) > 0 {
			normals[i] = r3.Unit(n)
		}
	}
	return normals
}

// invalidate drops cached derived attributes after a mutation.
func (m *Mesh) invalidate() {
	m.bounds = nil
	m.watertight = nil
}

// transform applies tf to every vertex in place. If tf flips orientation
// the face windings are flipped back to keep normals outward-consistent.
func (m *Mesh) transform(tf d3.Transform) {
	for i, v := range m.vertices {
		m.vertices[i] = tf.Transform(v)
	}
	if tf.Det() < 0 {
		m.flipWinding()
	}
	m.invalidate()
}

// flipWinding inverts the orientation of every face.
func (m *Mesh) flipWinding() {
	for i, f := range m.faces {
		m.faces[i] = [3]int{f[0], f[2], f[1]}
	}
	m.invalidate()
}

// append adds all faces of other to m, reindexing vertices.
func (m *Mesh) append(other *Mesh) {
	base := len(m.vertices)
	m.vertices = append(m.vertices, other.vertices...)
	for _, f := range other.faces {
		m.faces = append(m.faces, [3]int{f[0] + base, f[1] + base, f[2] + base})
	}
	if len(m.colors) != 0 || len(other.colors) != 0 {
		m.ensureColors()
		if len(other.colors) != 0 {
			copy(m.colors[base:], other.colors)
		}
	}
	m.invalidate()
}

func (m *Mesh) ensureColors() {
	for len(m.colors) < len(m.vertices) {
		m.colors = append(m.colors, [3]float64{1, 1, 1})
	}
}
