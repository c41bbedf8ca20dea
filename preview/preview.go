// Package preview renders meshes to PNG images for quick visual
// inspection of edit results.
package preview

import (
	"os"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"github.com/printforge/meshedit"
	"github.com/printforge/meshedit/internal/d3"
	"github.com/printforge/meshedit/meshio"
	"gonum.org/v1/gonum/spatial/r3"
)

// View describes the camera for a render.
type View struct {
	// LookAt is the point the camera looks at.
	LookAt r3.Vec
	// Up is the direction considered up.
	Up r3.Vec
	// Eye is the camera position.
	Eye  r3.Vec
	Far  float64
	Near float64
}

// DefaultView looks down at the origin from an isometric corner. The
// mesh is normalized into a bi-unit cube before rendering, so the same
// view works for any model size.
func DefaultView() View {
	return View{
		Up:   r3.Vec{Z: 1},
		Eye:  d3.Elem(3),
		Near: 1,
		Far:  10,
	}
}

// RenderPNG rasterizes the mesh with a Phong shader and writes a PNG.
func RenderPNG(m *meshedit.Mesh, outputName string, view View) error {
	tmp, err := os.CreateTemp("", "meshedit-preview-*.stl")
	if err != nil {
		return err
	}
	tmp.Close()
	defer os.Remove(tmp.Name())
	if err := meshio.WriteSTL(tmp.Name(), m); err != nil {
		return err
	}

	mesh, err := fauxgl.LoadSTL(tmp.Name())
	if err != nil {
		return err
	}
	const (
		width, height = 1920, 1080
		scale         = 1 // optional supersampling
		fovy          = 30
	)
	var (
		eye    = fauxgl.V(view.Eye.X, view.Eye.Y, view.Eye.Z)
		center = fauxgl.V(view.LookAt.X, view.LookAt.Y, view.LookAt.Z)
		up     = fauxgl.V(view.Up.X, view.Up.Y, view.Up.Z)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize()
		color  = fauxgl.HexColor("#468966")
	)

	// fit mesh in a bi-unit cube centered at the origin
	mesh.BiUnitCube()
	context := fauxgl.NewContext(width*scale, height*scale)
	context.ClearColorBufferWith(fauxgl.HexColor("#FFF8E3"))
	aspect := float64(width) / float64(height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(fovy, aspect, view.Near, view.Far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = color
	context.Shader = shader
	context.DrawMesh(mesh)
	// downsample for antialiasing
	image := context.Image()
	image = resize.Resize(width, height, image, resize.Bilinear)
	return fauxgl.SavePNG(outputName, image)
}
