package mathgl

import "fmt"

// Matrix2 is a 2x2 matrix stored row-major.
type Matrix2[T Float] [4]T

// NewMatrix2 takes its elements in row-major order.
func NewMatrix2[T Float](m00, m01, m10, m11 T) Matrix2[T] {
	return Matrix2[T]{m00, m01, m10, m11}
}

func Identity2[T Float]() Matrix2[T] {
	return Matrix2[T]{1, 0, 0, 1}
}

func (m Matrix2[T]) At(row, col int) T { return m[row*2+col] }

func (m *Matrix2[T]) Set(row, col int, v T) { m[row*2+col] = v }

func (m Matrix2[T]) Mul(o Matrix2[T]) Matrix2[T] {
	return Matrix2[T]{
		m[0]*o[0] + m[1]*o[2], m[0]*o[1] + m[1]*o[3],
		m[2]*o[0] + m[3]*o[2], m[2]*o[1] + m[3]*o[3],
	}
}

func (m Matrix2[T]) MulScalar(s T) Matrix2[T] {
	return Matrix2[T]{m[0] * s, m[1] * s, m[2] * s, m[3] * s}
}

func (m Matrix2[T]) MulVector(v Vector2[T]) Vector2[T] {
	return Vector2[T]{m[0]*v.X + m[1]*v.Y, m[2]*v.X + m[3]*v.Y}
}

func (m Matrix2[T]) Transpose() Matrix2[T] {
	return Matrix2[T]{m[0], m[2], m[1], m[3]}
}

func (m Matrix2[T]) Determinant() T {
	return m[0]*m[3] - m[1]*m[2]
}

// Invert fails with ErrDomain when m is singular.
func (m Matrix2[T]) Invert() (Matrix2[T], error) {
	det := m.Determinant()
	if det == 0 {
		return m, errSingular
	}
	inv := 1 / det
	return Matrix2[T]{m[3] * inv, -m[1] * inv, -m[2] * inv, m[0] * inv}, nil
}

// Rotation2 rotates counter-clockwise by rad.
func Rotation2[T Float](rad T) Matrix2[T] {
	s, c := sincos(rad)
	return Matrix2[T]{c, -s, s, c}
}

func Scaling2[T Float](v Vector2[T]) Matrix2[T] {
	return Matrix2[T]{v.X, 0, 0, v.Y}
}

func (m Matrix2[T]) Rotate(rad T) Matrix2[T]       { return m.Mul(Rotation2(rad)) }
func (m Matrix2[T]) Scale(v Vector2[T]) Matrix2[T] { return m.Mul(Scaling2(v)) }

func (m Matrix2[T]) Equals(o Matrix2[T]) bool {
	for i := range m {
		if !EqualsApprox(m[i], o[i]) {
			return false
		}
	}
	return true
}

func (m Matrix2[T]) String() string {
	return fmt.Sprintf("[%v %v; %v %v]", m[0], m[1], m[2], m[3])
}
