package meshio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/printforge/meshedit"
	"gonum.org/v1/gonum/spatial/r3"
)

// EncodeOBJ writes the mesh as Wavefront OBJ vertex and face records.
// Normals, texture coordinates and materials are not written.
func EncodeOBJ(w io.Writer, m *meshedit.Mesh) error {
	bw := bufio.NewWriter(w)
	for _, v := range m.Vertices() {
		if _, err := fmt.Fprintf(bw, "v %g %g %g\n", v.X, v.Y, v.Z); err != nil {
			return err
		}
	}
	for _, f := range m.Faces() {
		// OBJ indices are 1-based.
		if _, err := fmt.Fprintf(bw, "f %d %d %d\n", f[0]+1, f[1]+1, f[2]+1); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// DecodeOBJ reads v and f records from a Wavefront OBJ stream. Faces
// with more than three vertices are fan-triangulated; other record
// types are ignored.
func DecodeOBJ(r io.Reader) (*meshedit.Mesh, error) {
	var (
		vertices []r3.Vec
		faces    [][3]int
	)
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs 3 coordinates", line)
			}
			var v r3.Vec
			var err error
			if v.X, err = strconv.ParseFloat(fields[1], 64); err == nil {
				if v.Y, err = strconv.ParseFloat(fields[2], 64); err == nil {
					v.Z, err = strconv.ParseFloat(fields[3], 64)
				}
			}
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			vertices = append(vertices, v)
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", line)
			}
			idx := make([]int, len(fields)-1)
			for i, f := range fields[1:] {
				// Strip texture/normal references: "7/1/3" -> "7".
				if slash := strings.IndexByte(f, '/'); slash >= 0 {
					f = f[:slash]
				}
				n, err := strconv.Atoi(f)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}
				if n < 0 {
					n = len(vertices) + n + 1
				}
				if n < 1 || n > len(vertices) {
					return nil, fmt.Errorf("line %d: vertex index %d out of range", line, n)
				}
				idx[i] = n - 1
			}
			for i := 1; i < len(idx)-1; i++ {
				faces = append(faces, [3]int{idx[0], idx[i], idx[i+1]})
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return meshedit.NewMesh(vertices, faces)
}

// ReadOBJ loads a Wavefront OBJ file.
func ReadOBJ(path string) (*meshedit.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeOBJ(f)
}

// WriteOBJ saves the mesh to a Wavefront OBJ file.
func WriteOBJ(path string, m *meshedit.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return EncodeOBJ(f, m)
}
