package mathgl

import (
	"fmt"
	"math"
)

// Matrix4 is a 4x4 matrix stored row-major. Translation lives in the last column.
type Matrix4[T Float] [16]T

// NewMatrix4 takes its elements in row-major order.
func NewMatrix4[T Float](
	m00, m01, m02, m03,
	m10, m11, m12, m13,
	m20, m21, m22, m23,
	m30, m31, m32, m33 T,
) Matrix4[T] {
	return Matrix4[T]{
		m00, m01, m02, m03,
		m10, m11, m12, m13,
		m20, m21, m22, m23,
		m30, m31, m32, m33,
	}
}

func Identity4[T Float]() Matrix4[T] {
	return Matrix4[T]{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

func (m Matrix4[T]) At(row, col int) T { return m[row*4+col] }

func (m *Matrix4[T]) Set(row, col int, v T) { m[row*4+col] = v }

// Row returns the given row as a vector.
func (m Matrix4[T]) Row(row int) Vector4[T] {
	return Vector4[T]{m[row*4], m[row*4+1], m[row*4+2], m[row*4+3]}
}

// Col returns the given column as a vector.
func (m Matrix4[T]) Col(col int) Vector4[T] {
	return Vector4[T]{m[col], m[4+col], m[8+col], m[12+col]}
}

func (m Matrix4[T]) IsIdentity() bool {
	return m == Identity4[T]()
}

// Mul returns m*o, which applies o first and m second.
func (m Matrix4[T]) Mul(o Matrix4[T]) Matrix4[T] {
	var r Matrix4[T]
	for row := 0; row < 4; row++ {
		a0, a1, a2, a3 := m[row*4], m[row*4+1], m[row*4+2], m[row*4+3]
		for col := 0; col < 4; col++ {
			r[row*4+col] = a0*o[col] + a1*o[4+col] + a2*o[8+col] + a3*o[12+col]
		}
	}
	return r
}

func (m Matrix4[T]) MulScalar(s T) Matrix4[T] {
	for i := range m {
		m[i] *= s
	}
	return m
}

func (m Matrix4[T]) MulVector(v Vector4[T]) Vector4[T] {
	return Vector4[T]{
		m[0]*v.X + m[1]*v.Y + m[2]*v.Z + m[3]*v.W,
		m[4]*v.X + m[5]*v.Y + m[6]*v.Z + m[7]*v.W,
		m[8]*v.X + m[9]*v.Y + m[10]*v.Z + m[11]*v.W,
		m[12]*v.X + m[13]*v.Y + m[14]*v.Z + m[15]*v.W,
	}
}

// TransformPoint applies m to p (w=1) and divides by the resulting w.
func (m Matrix4[T]) TransformPoint(p Vector3[T]) Vector3[T] {
	return m.MulVector(p.Vec4(1)).Homogenize()
}

// TransformDirection applies m to d (w=0), ignoring translation.
func (m Matrix4[T]) TransformDirection(d Vector3[T]) Vector3[T] {
	return m.MulVector(d.Vec4(0)).XYZ()
}

func (m Matrix4[T]) Transpose() Matrix4[T] {
	return Matrix4[T]{
		m[0], m[4], m[8], m[12],
		m[1], m[5], m[9], m[13],
		m[2], m[6], m[10], m[14],
		m[3], m[7], m[11], m[15],
	}
}

// cofactorTerms are the 2x2 sub-determinants shared by Determinant and Invert.
func (m Matrix4[T]) cofactorTerms() [12]T {
	return [12]T{
		m[0]*m[5] - m[1]*m[4],
		m[0]*m[6] - m[2]*m[4],
		m[0]*m[7] - m[3]*m[4],
		m[1]*m[6] - m[2]*m[5],
		m[1]*m[7] - m[3]*m[5],
		m[2]*m[7] - m[3]*m[6],
		m[8]*m[13] - m[9]*m[12],
		m[8]*m[14] - m[10]*m[12],
		m[8]*m[15] - m[11]*m[12],
		m[9]*m[14] - m[10]*m[13],
		m[9]*m[15] - m[11]*m[13],
		m[10]*m[15] - m[11]*m[14],
	}
}

func (m Matrix4[T]) Determinant() T {
	b := m.cofactorTerms()
	return b[0]*b[11] - b[1]*b[10] + b[2]*b[9] + b[3]*b[8] - b[4]*b[7] + b[5]*b[6]
}

// Invert computes the general inverse by cofactor expansion.
// It fails with ErrDomain when m is singular.
func (m Matrix4[T]) Invert() (Matrix4[T], error) {
	b := m.cofactorTerms()
	det := b[0]*b[11] - b[1]*b[10] + b[2]*b[9] + b[3]*b[8] - b[4]*b[7] + b[5]*b[6]
	if det == 0 || math.IsNaN(float64(det)) {
		return m, errSingular
	}
	inv := 1 / det
	return Matrix4[T]{
		(m[5]*b[11] - m[6]*b[10] + m[7]*b[9]) * inv,
		(m[2]*b[10] - m[1]*b[11] - m[3]*b[9]) * inv,
		(m[13]*b[5] - m[14]*b[4] + m[15]*b[3]) * inv,
		(m[10]*b[4] - m[9]*b[5] - m[11]*b[3]) * inv,
		(m[6]*b[8] - m[4]*b[11] - m[7]*b[7]) * inv,
		(m[0]*b[11] - m[2]*b[8] + m[3]*b[7]) * inv,
		(m[14]*b[2] - m[12]*b[5] - m[15]*b[1]) * inv,
		(m[8]*b[5] - m[10]*b[2] + m[11]*b[1]) * inv,
		(m[4]*b[10] - m[5]*b[8] + m[7]*b[6]) * inv,
		(m[1]*b[8] - m[0]*b[10] - m[3]*b[6]) * inv,
		(m[12]*b[4] - m[13]*b[2] + m[15]*b[0]) * inv,
		(m[9]*b[2] - m[8]*b[4] - m[11]*b[0]) * inv,
		(m[5]*b[7] - m[4]*b[9] - m[6]*b[6]) * inv,
		(m[0]*b[9] - m[1]*b[7] + m[2]*b[6]) * inv,
		(m[13]*b[1] - m[12]*b[3] - m[14]*b[0]) * inv,
		(m[8]*b[3] - m[9]*b[1] + m[10]*b[0]) * inv,
	}, nil
}

/* ========================= BUILDERS ========================= */

func Translation4[T Float](v Vector3[T]) Matrix4[T] {
	return Matrix4[T]{
		1, 0, 0, v.X,
		0, 1, 0, v.Y,
		0, 0, 1, v.Z,
		0, 0, 0, 1,
	}
}

func Scaling4[T Float](v Vector3[T]) Matrix4[T] {
	return Matrix4[T]{
		v.X, 0, 0, 0,
		0, v.Y, 0, 0,
		0, 0, v.Z, 0,
		0, 0, 0, 1,
	}
}

func RotationX4[T Float](rad T) Matrix4[T] {
	s, c := sincos(rad)
	return Matrix4[T]{
		1, 0, 0, 0,
		0, c, -s, 0,
		0, s, c, 0,
		0, 0, 0, 1,
	}
}

func RotationY4[T Float](rad T) Matrix4[T] {
	s, c := sincos(rad)
	return Matrix4[T]{
		c, 0, s, 0,
		0, 1, 0, 0,
		-s, 0, c, 0,
		0, 0, 0, 1,
	}
}

func RotationZ4[T Float](rad T) Matrix4[T] {
	s, c := sincos(rad)
	return Matrix4[T]{
		c, -s, 0, 0,
		s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Perspective builds an OpenGL style frustum (clip z in [-1, 1]). fovy is in radians.
func Perspective[T Float](fovy, aspect, near, far T) Matrix4[T] {
	f := T(1 / math.Tan(float64(fovy)/2))
	nf := 1 / (near - far)
	return Matrix4[T]{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) * nf, 2 * far * near * nf,
		0, 0, -1, 0,
	}
}

// Ortho builds an OpenGL style orthographic projection.
func Ortho[T Float](left, right, bottom, top, near, far T) Matrix4[T] {
	lr := 1 / (left - right)
	bt := 1 / (bottom - top)
	nf := 1 / (near - far)
	return Matrix4[T]{
		-2 * lr, 0, 0, (left + right) * lr,
		0, -2 * bt, 0, (top + bottom) * bt,
		0, 0, 2 * nf, (far + near) * nf,
		0, 0, 0, 1,
	}
}

// OrthographicFromFovy is an orthographic projection whose frustum matches a perspective one
// with the given vertical field of view at focalDistance.
func OrthographicFromFovy[T Float](fovy, aspect, focalDistance, near, far T) Matrix4[T] {
	top := focalDistance * T(math.Tan(float64(fovy)/2))
	right := top * aspect
	return Ortho(-right, right, -top, top, near, far)
}

func (m Matrix4[T]) Translate(v Vector3[T]) Matrix4[T] { return m.Mul(Translation4(v)) }
func (m Matrix4[T]) Scale(v Vector3[T]) Matrix4[T]     { return m.Mul(Scaling4(v)) }
func (m Matrix4[T]) RotateX(rad T) Matrix4[T]          { return m.Mul(RotationX4(rad)) }
func (m Matrix4[T]) RotateY(rad T) Matrix4[T]          { return m.Mul(RotationY4(rad)) }
func (m Matrix4[T]) RotateZ(rad T) Matrix4[T]          { return m.Mul(RotationZ4(rad)) }

// Float32 converts m to single precision, e.g. for a GPU uniform buffer.
func (m Matrix4[T]) Float32() Matrix4[float32] {
	var r Matrix4[float32]
	for i := range m {
		r[i] = float32(m[i])
	}
	return r
}

func (m Matrix4[T]) Equals(o Matrix4[T]) bool {
	for i := range m {
		if !EqualsApprox(m[i], o[i]) {
			return false
		}
	}
	return true
}

func (m Matrix4[T]) String() string {
	return fmt.Sprintf("[%v %v %v %v; %v %v %v %v; %v %v %v %v; %v %v %v %v]",
		m[0], m[1], m[2], m[3], m[4], m[5], m[6], m[7],
		m[8], m[9], m[10], m[11], m[12], m[13], m[14], m[15])
}
