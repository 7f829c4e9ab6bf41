package mathgl

import "fmt"

// Vector2 is a 2-component vector.
type Vector2[T Float] struct {
	X, Y T
}

// Vector3 is a 3-component vector.
type Vector3[T Float] struct {
	X, Y, Z T
}

// Vector4 is a 4-component (homogeneous) vector.
type Vector4[T Float] struct {
	X, Y, Z, W T
}

func Vec2[T Float](x, y T) Vector2[T] {
	return Vector2[T]{X: x, Y: y}
}

func Vec3[T Float](x, y, z T) Vector3[T] {
	return Vector3[T]{X: x, Y: y, Z: z}
}

func Vec4[T Float](x, y, z, w T) Vector4[T] {
	return Vector4[T]{X: x, Y: y, Z: z, W: w}
}

/* ========================= Vector2 ========================= */

func (v Vector2[T]) Add(o Vector2[T]) Vector2[T] { return Vector2[T]{v.X + o.X, v.Y + o.Y} }
func (v Vector2[T]) Sub(o Vector2[T]) Vector2[T] { return Vector2[T]{v.X - o.X, v.Y - o.Y} }
func (v Vector2[T]) Mul(o Vector2[T]) Vector2[T] { return Vector2[T]{v.X * o.X, v.Y * o.Y} }
func (v Vector2[T]) MulScalar(s T) Vector2[T]    { return Vector2[T]{v.X * s, v.Y * s} }
func (v Vector2[T]) DivScalar(s T) Vector2[T]    { return Vector2[T]{v.X / s, v.Y / s} }
func (v Vector2[T]) Negate() Vector2[T]          { return Vector2[T]{-v.X, -v.Y} }
func (v Vector2[T]) Dot(o Vector2[T]) T          { return v.X*o.X + v.Y*o.Y }
func (v Vector2[T]) LengthSquared() T            { return v.Dot(v) }
func (v Vector2[T]) Length() T                   { return sqrt(v.LengthSquared()) }

// Normalize returns the unit vector pointing in the direction of v.
func (v Vector2[T]) Normalize() (Vector2[T], error) {
	l := v.Length()
	if l == 0 {
		return v, errZeroLength
	}
	return v.DivScalar(l), nil
}

// Lerp interpolates linearly between v (t=0) and o (t=1).
func (v Vector2[T]) Lerp(o Vector2[T], t T) Vector2[T] {
	return Vector2[T]{v.X + t*(o.X-v.X), v.Y + t*(o.Y-v.Y)}
}

func (v Vector2[T]) Equals(o Vector2[T]) bool {
	return EqualsApprox(v.X, o.X) && EqualsApprox(v.Y, o.Y)
}

func (v Vector2[T]) Slice() []T { return []T{v.X, v.Y} }

func (v Vector2[T]) String() string { return fmt.Sprintf("(%v, %v)", v.X, v.Y) }

/* ========================= Vector3 ========================= */

func (v Vector3[T]) Add(o Vector3[T]) Vector3[T] { return Vector3[T]{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vector3[T]) Sub(o Vector3[T]) Vector3[T] { return Vector3[T]{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vector3[T]) Mul(o Vector3[T]) Vector3[T] { return Vector3[T]{v.X * o.X, v.Y * o.Y, v.Z * o.Z} }
func (v Vector3[T]) MulScalar(s T) Vector3[T]    { return Vector3[T]{v.X * s, v.Y * s, v.Z * s} }
func (v Vector3[T]) DivScalar(s T) Vector3[T]    { return Vector3[T]{v.X / s, v.Y / s, v.Z / s} }
func (v Vector3[T]) Negate() Vector3[T]          { return Vector3[T]{-v.X, -v.Y, -v.Z} }
func (v Vector3[T]) Dot(o Vector3[T]) T          { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vector3[T]) LengthSquared() T            { return v.Dot(v) }
func (v Vector3[T]) Length() T                   { return sqrt(v.LengthSquared()) }

func (v Vector3[T]) Cross(o Vector3[T]) Vector3[T] {
	return Vector3[T]{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Normalize returns the unit vector pointing in the direction of v.
func (v Vector3[T]) Normalize() (Vector3[T], error) {
	l := v.Length()
	if l == 0 {
		return v, errZeroLength
	}
	return v.DivScalar(l), nil
}

// Lerp interpolates linearly between v (t=0) and o (t=1).
func (v Vector3[T]) Lerp(o Vector3[T], t T) Vector3[T] {
	return Vector3[T]{v.X + t*(o.X-v.X), v.Y + t*(o.Y-v.Y), v.Z + t*(o.Z-v.Z)}
}

func (v Vector3[T]) Equals(o Vector3[T]) bool {
	return EqualsApprox(v.X, o.X) && EqualsApprox(v.Y, o.Y) && EqualsApprox(v.Z, o.Z)
}

// XY drops the Z component.
func (v Vector3[T]) XY() Vector2[T] { return Vector2[T]{v.X, v.Y} }

// Vec4 extends v with the given w.
func (v Vector3[T]) Vec4(w T) Vector4[T] { return Vector4[T]{v.X, v.Y, v.Z, w} }

func (v Vector3[T]) Slice() []T { return []T{v.X, v.Y, v.Z} }

func (v Vector3[T]) String() string { return fmt.Sprintf("(%v, %v, %v)", v.X, v.Y, v.Z) }

/* ========================= Vector4 ========================= */

func (v Vector4[T]) Add(o Vector4[T]) Vector4[T] {
	return Vector4[T]{v.X + o.X, v.Y + o.Y, v.Z + o.Z, v.W + o.W}
}

func (v Vector4[T]) Sub(o Vector4[T]) Vector4[T] {
	return Vector4[T]{v.X - o.X, v.Y - o.Y, v.Z - o.Z, v.W - o.W}
}

func (v Vector4[T]) MulScalar(s T) Vector4[T] { return Vector4[T]{v.X * s, v.Y * s, v.Z * s, v.W * s} }
func (v Vector4[T]) Negate() Vector4[T]       { return Vector4[T]{-v.X, -v.Y, -v.Z, -v.W} }
func (v Vector4[T]) Dot(o Vector4[T]) T       { return v.X*o.X + v.Y*o.Y + v.Z*o.Z + v.W*o.W }
func (v Vector4[T]) Length() T                { return sqrt(v.Dot(v)) }

// Normalize returns the unit vector pointing in the direction of v.
func (v Vector4[T]) Normalize() (Vector4[T], error) {
	l := v.Length()
	if l == 0 {
		return v, errZeroLength
	}
	return v.MulScalar(1 / l), nil
}

// XYZ drops the W component without dividing by it.
func (v Vector4[T]) XYZ() Vector3[T] { return Vector3[T]{v.X, v.Y, v.Z} }

// Homogenize divides X, Y and Z by W.
func (v Vector4[T]) Homogenize() Vector3[T] {
	if v.W == 0 || v.W == 1 {
		return v.XYZ()
	}
	return Vector3[T]{v.X / v.W, v.Y / v.W, v.Z / v.W}
}

func (v Vector4[T]) Equals(o Vector4[T]) bool {
	return EqualsApprox(v.X, o.X) && EqualsApprox(v.Y, o.Y) && EqualsApprox(v.Z, o.Z) && EqualsApprox(v.W, o.W)
}

func (v Vector4[T]) Slice() []T { return []T{v.X, v.Y, v.Z, v.W} }

func (v Vector4[T]) String() string { return fmt.Sprintf("(%v, %v, %v, %v)", v.X, v.Y, v.Z, v.W) }
