package preview

import (
	"image/png"
	"os"
	"testing"

	"github.com/printforge/meshedit"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestRenderPNG(t *testing.T) {
	a := r3.Vec{}
	b := r3.Vec{X: 1}
	c := r3.Vec{Y: 1}
	d := r3.Vec{Z: 1}
	tris := []meshedit.Triangle{
		{V: [3]r3.Vec{a, c, b}},
		{V: [3]r3.Vec{a, b, d}},
		{V: [3]r3.Vec{a, d, c}},
		{V: [3]r3.Vec{b, c, d}},
	}
	m := meshedit.FromTriangles(tris, 0)

	out := t.TempDir() + "/tetra.png"
	if err := RenderPNG(m, out, DefaultView()); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if w := img.Bounds().Dx(); w != 1920 {
		t.Errorf("image width: got %d, want 1920", w)
	}
}
