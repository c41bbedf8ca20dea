package d3

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Transform is an affine 3D spatial transformation composed of a linear
// part and a translation. The zero value is not meaningful; construct
// transforms with the Identity, Translation, Scaling and Reflection
// constructors and compose them with Mul.
type Transform struct {
	// m holds the linear part in row-major order.
	m [3][3]float64
	t r3.Vec
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{m: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}
}

// Translation returns a transform that moves points by v.
func Translation(v r3.Vec) Transform {
	tf := Identity()
	tf.t = v
	return tf
}

// Scaling returns a transform that scales points about origin by the
// per-axis factors in factor.
func Scaling(origin, factor r3.Vec) Transform {
	tf := Transform{m: [3][3]float64{
		{factor.X, 0, 0},
		{0, factor.Y, 0},
		{0, 0, factor.Z},
	}}
	// Scale about origin: translate to origin, scale, translate back.
	tf.t = r3.Sub(origin, MulElem(factor, origin))
	return tf
}

// Reflection returns the Householder reflection about the plane through
// point p with unit normal n:
//
//	x' = x - 2((x-p)·n) n
//
// expressed as linear part I - 2nnᵀ and translation 2(p·n)n.
func Reflection(p, n r3.Vec) Transform {
	n = r3.Unit(n)
	var tf Transform
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			tf.m[i][j] = -2 * Axis(n, i) * Axis(n, j)
			if i == j {
				tf.m[i][j]++
			}
		}
	}
	tf.t = r3.Scale(2*r3.Dot(p, n), n)
	return tf
}

// Rotation returns the transform whose linear part has rows x, y and z,
// mapping world coordinates into the frame those rows span. With
// orthonormal rows this is a pure rotation.
func Rotation(x, y, z r3.Vec) Transform {
	return Transform{m: [3][3]float64{
		{x.X, x.Y, x.Z},
		{y.X, y.Y, y.Z},
		{z.X, z.Y, z.Z},
	}}
}

// Translate returns tf with v added to its translation.
func (tf Transform) Translate(v r3.Vec) Transform {
	tf.t = r3.Add(tf.t, v)
	return tf
}

// InvRigid returns the inverse of a rigid transform (orthonormal linear
// part): the transpose of the linear part and the negated, rotated
// translation.
func (tf Transform) InvRigid() Transform {
	var out Transform
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out.m[i][j] = tf.m[j][i]
		}
	}
	out.t = r3.Scale(-1, r3.Vec{
		X: out.m[0][0]*tf.t.X + out.m[0][1]*tf.t.Y + out.m[0][2]*tf.t.Z,
		Y: out.m[1][0]*tf.t.X + out.m[1][1]*tf.t.Y + out.m[1][2]*tf.t.Z,
		Z: out.m[2][0]*tf.t.X + out.m[2][1]*tf.t.Y + out.m[2][2]*tf.t.Z,
	})
	return out
}

// Transform applies the transform to v and returns the result.
func (tf Transform) Transform(v r3.Vec) r3.Vec {
	return r3.Vec{
		X: tf.m[0][0]*v.X + tf.m[0][1]*v.Y + tf.m[0][2]*v.Z + tf.t.X,
		Y: tf.m[1][0]*v.X + tf.m[1][1]*v.Y + tf.m[1][2]*v.Z + tf.t.Y,
		Z: tf.m[2][0]*v.X + tf.m[2][1]*v.Y + tf.m[2][2]*v.Z + tf.t.Z,
	}
}

// Mul returns the composition tf∘b, the transform that applies b first
// and then tf.
func (tf Transform) Mul(b Transform) Transform {
	var out Transform
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				out.m[i][j] += tf.m[i][k] * b.m[k][j]
			}
		}
	}
	out.t = tf.Transform(b.t)
	return out
}

// Det returns the determinant of the linear part. A negative determinant
// indicates the transform flips orientation (reflections do).
func (tf Transform) Det() float64 {
	m := tf.m
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}
