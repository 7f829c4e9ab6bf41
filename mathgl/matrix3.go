package mathgl

import "fmt"

// Matrix3 is a 3x3 matrix stored row-major. Used as a 2D homogeneous transform.
type Matrix3[T Float] [9]T

// NewMatrix3 takes its elements in row-major order.
func NewMatrix3[T Float](m00, m01, m02, m10, m11, m12, m20, m21, m22 T) Matrix3[T] {
	return Matrix3[T]{m00, m01, m02, m10, m11, m12, m20, m21, m22}
}

func Identity3[T Float]() Matrix3[T] {
	return Matrix3[T]{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

func (m Matrix3[T]) At(row, col int) T { return m[row*3+col] }

func (m *Matrix3[T]) Set(row, col int, v T) { m[row*3+col] = v }

func (m Matrix3[T]) Mul(o Matrix3[T]) Matrix3[T] {
	var r Matrix3[T]
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			r[row*3+col] = m[row*3]*o[col] + m[row*3+1]*o[3+col] + m[row*3+2]*o[6+col]
		}
	}
	return r
}

func (m Matrix3[T]) MulScalar(s T) Matrix3[T] {
	for i := range m {
		m[i] *= s
	}
	return m
}

func (m Matrix3[T]) MulVector(v Vector3[T]) Vector3[T] {
	return Vector3[T]{
		m[0]*v.X + m[1]*v.Y + m[2]*v.Z,
		m[3]*v.X + m[4]*v.Y + m[5]*v.Z,
		m[6]*v.X + m[7]*v.Y + m[8]*v.Z,
	}
}

// TransformPoint applies m to the 2D point p (w=1).
func (m Matrix3[T]) TransformPoint(p Vector2[T]) Vector2[T] {
	r := m.MulVector(Vector3[T]{p.X, p.Y, 1})
	if r.Z != 0 && r.Z != 1 {
		return Vector2[T]{r.X / r.Z, r.Y / r.Z}
	}
	return r.XY()
}

func (m Matrix3[T]) Transpose() Matrix3[T] {
	return Matrix3[T]{m[0], m[3], m[6], m[1], m[4], m[7], m[2], m[5], m[8]}
}

func (m Matrix3[T]) Determinant() T {
	return m[0]*(m[4]*m[8]-m[5]*m[7]) -
		m[1]*(m[3]*m[8]-m[5]*m[6]) +
		m[2]*(m[3]*m[7]-m[4]*m[6])
}

// Invert fails with ErrDomain when m is singular.
func (m Matrix3[T]) Invert() (Matrix3[T], error) {
	det := m.Determinant()
	if det == 0 {
		return m, errSingular
	}
	inv := 1 / det
	return Matrix3[T]{
		(m[4]*m[8] - m[5]*m[7]) * inv,
		(m[2]*m[7] - m[1]*m[8]) * inv,
		(m[1]*m[5] - m[2]*m[4]) * inv,
		(m[5]*m[6] - m[3]*m[8]) * inv,
		(m[0]*m[8] - m[2]*m[6]) * inv,
		(m[2]*m[3] - m[0]*m[5]) * inv,
		(m[3]*m[7] - m[4]*m[6]) * inv,
		(m[1]*m[6] - m[0]*m[7]) * inv,
		(m[0]*m[4] - m[1]*m[3]) * inv,
	}, nil
}

func Translation3[T Float](v Vector2[T]) Matrix3[T] {
	return Matrix3[T]{1, 0, v.X, 0, 1, v.Y, 0, 0, 1}
}

func Scaling3[T Float](v Vector2[T]) Matrix3[T] {
	return Matrix3[T]{v.X, 0, 0, 0, v.Y, 0, 0, 0, 1}
}

// Rotation3 rotates counter-clockwise by rad around the origin.
func Rotation3[T Float](rad T) Matrix3[T] {
	s, c := sincos(rad)
	return Matrix3[T]{c, -s, 0, s, c, 0, 0, 0, 1}
}

func (m Matrix3[T]) Translate(v Vector2[T]) Matrix3[T] { return m.Mul(Translation3(v)) }
func (m Matrix3[T]) Scale(v Vector2[T]) Matrix3[T]     { return m.Mul(Scaling3(v)) }
func (m Matrix3[T]) Rotate(rad T) Matrix3[T]           { return m.Mul(Rotation3(rad)) }

func (m Matrix3[T]) Equals(o Matrix3[T]) bool {
	for i := range m {
		if !EqualsApprox(m[i], o[i]) {
			return false
		}
	}
	return true
}

func (m Matrix3[T]) String() string {
	return fmt.Sprintf("[%v %v %v; %v %v %v; %v %v %v]", m[0], m[1], m[2], m[3], m[4], m[5], m[6], m[7], m[8])
}
