package mathgl

import (
	"fmt"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertMatchesMgl(t *testing.T, want mgl64.Mat4, got Matrix4[float64]) {
	t.Helper()
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			assert.InDeltaf(t, want.At(row, col), got.At(row, col), 1e-9, "element (%d, %d)", row, col)
		}
	}
}

func TestEqualsApprox(t *testing.T) {
	tests := []struct {
		a, b float64
		want bool
	}{
		{a: 1, b: 1, want: true},
		{a: 0, b: 1e-8, want: true},
		{a: 0, b: 1e-6, want: false},
		{a: 1e6, b: 1e6 + 0.01, want: true},
		{a: 1e6, b: 1e6 + 1, want: false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v~%v", tt.a, tt.b), func(t *testing.T) {
			assert.Equal(t, tt.want, EqualsApprox(tt.a, tt.b))
		})
	}
}

func TestEpsilonIsConfigurable(t *testing.T) {
	old := Epsilon
	defer func() { Epsilon = old }()

	a := Vec3[float64](1, 2, 3)
	b := Vec3(1+1e-9, 2.0, 3.0)
	assert.True(t, a.Equals(b))
	Epsilon = 1e-12
	assert.False(t, a.Equals(b))
}

func TestVector3(t *testing.T) {
	x := Vec3[float64](1, 0, 0)
	y := Vec3[float64](0, 1, 0)
	assert.Equal(t, Vec3[float64](0, 0, 1), x.Cross(y))
	assert.Equal(t, 0.0, x.Dot(y))
	assert.Equal(t, Vec3[float64](1, 1, 0), x.Add(y))
	assert.Equal(t, Vec3[float64](-1, 0, 0), x.Negate())
	assert.Equal(t, Vec3[float64](0.5, 0.5, 0), x.Lerp(y, 0.5))
	assert.InDelta(t, 5.0, Vec3[float64](3, 4, 0).Length(), 1e-12)

	n, err := Vec3[float64](0, 3, 4).Normalize()
	require.NoError(t, err)
	assert.True(t, n.Equals(Vec3(0, 0.6, 0.8)))
}

func TestNormalizeZeroLength(t *testing.T) {
	_, err := Vector3[float32]{}.Normalize()
	require.ErrorIs(t, err, ErrDomain)
	assert.Contains(t, err.Error(), "normalize called on zero length vector")

	_, err = Vector2[float64]{}.Normalize()
	require.ErrorIs(t, err, ErrDomain)
	_, err = Vector4[float64]{}.Normalize()
	require.ErrorIs(t, err, ErrDomain)
}

func TestMatrix2(t *testing.T) {
	m := NewMatrix2[float64](4, 7, 2, 6)
	assert.Equal(t, 10.0, m.Determinant())
	inv, err := m.Invert()
	require.NoError(t, err)
	assert.True(t, m.Mul(inv).Equals(Identity2[float64]()))
	assert.Equal(t, NewMatrix2[float64](4, 2, 7, 6), m.Transpose())

	v := Rotation2(ToRadians(90.0)).MulVector(Vec2[float64](1, 0))
	assert.True(t, v.Equals(Vec2[float64](0, 1)))

	_, err = NewMatrix2[float64](1, 2, 2, 4).Invert()
	require.ErrorIs(t, err, ErrDomain)
	assert.Contains(t, err.Error(), "singular matrix")
}

func TestMatrix3(t *testing.T) {
	m := Identity3[float64]().Translate(Vec2[float64](1, 1)).Rotate(ToRadians(90.0)).Scale(Vec2[float64](2, 2))
	// 1,0 -> scale(2) = 2,0 -> rotate 90 = 0,2 -> translate 1,1 -> 1,3
	assert.True(t, m.TransformPoint(Vec2[float64](1, 0)).Equals(Vec2[float64](1, 3)))

	inv, err := m.Invert()
	require.NoError(t, err)
	assert.True(t, inv.Mul(m).Equals(Identity3[float64]()))
	assert.InDelta(t, 4.0, m.Determinant(), 1e-12)

	_, err = NewMatrix3[float64](1, 2, 3, 2, 4, 6, 0, 0, 1).Invert()
	require.ErrorIs(t, err, ErrDomain)
}

func TestMatrix4MulIsNotCommutative(t *testing.T) {
	tr := Translation4(Vec3[float64](10, 0, 0))
	sc := Scaling4(Vec3[float64](2, 2, 2))
	p := Vec3[float64](1, 1, 1)
	assert.Equal(t, Vec3[float64](12, 2, 2), tr.Mul(sc).TransformPoint(p))
	assert.Equal(t, Vec3[float64](22, 2, 2), sc.Mul(tr).TransformPoint(p))
	assert.Equal(t, tr.Mul(sc), Identity4[float64]().Translate(Vec3[float64](10, 0, 0)).Scale(Vec3[float64](2, 2, 2)))
}

func TestMatrix4Builders(t *testing.T) {
	assertMatchesMgl(t, mgl64.Perspective(ToRadians(75.0), 1.5, 0.1, 1000), Perspective(ToRadians(75.0), 1.5, 0.1, 1000))
	assertMatchesMgl(t, mgl64.Ortho(-2, 2, -1, 1, 0.1, 100), Ortho[float64](-2, 2, -1, 1, 0.1, 100))
	assertMatchesMgl(t, mgl64.Translate3D(1, 2, 3), Translation4(Vec3[float64](1, 2, 3)))
	assertMatchesMgl(t, mgl64.HomogRotate3DX(0.3), RotationX4(0.3))
	assertMatchesMgl(t, mgl64.HomogRotate3DY(0.3), RotationY4(0.3))
	assertMatchesMgl(t, mgl64.HomogRotate3DZ(0.3), RotationZ4(0.3))

	chained := Identity4[float64]().Translate(Vec3[float64](0, 0, -1.5)).RotateX(-0.5).RotateZ(0.7).Scale(Vec3[float64](3, 3, 3))
	want := mgl64.Translate3D(0, 0, -1.5).Mul4(mgl64.HomogRotate3DX(-0.5)).Mul4(mgl64.HomogRotate3DZ(0.7)).Mul4(mgl64.Scale3D(3, 3, 3))
	assertMatchesMgl(t, want, chained)
}

func TestMatrix4Invert(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix4[float64]
	}{
		{name: "identity", m: Identity4[float64]()},
		{name: "perspective", m: Perspective(ToRadians(60.0), 1.3, 0.1, 100)},
		{name: "view", m: Identity4[float64]().Translate(Vec3[float64](0, 0, -1.5)).RotateX(-0.8).RotateZ(0.3).Scale(Vec3[float64](0.01, 0.01, 0.01))},
		{name: "dense", m: NewMatrix4[float64](2, 3, 1, 5, 1, 0, 3, 1, 0, 2, -3, 2, 0, 2, 3, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := tt.m.Invert()
			require.NoError(t, err)
			assert.True(t, tt.m.Mul(inv).Equals(Identity4[float64]()), "m * inv(m) = %v", tt.m.Mul(inv))

			var asMgl mgl64.Mat4
			for row := 0; row < 4; row++ {
				for col := 0; col < 4; col++ {
					asMgl.Set(row, col, tt.m.At(row, col))
				}
			}
			assert.InDelta(t, asMgl.Det(), tt.m.Determinant(), 1e-9)
			assertMatchesMgl(t, asMgl.Inv(), inv)
		})
	}
}

func TestMatrix4InvertSingular(t *testing.T) {
	m := NewMatrix4[float64](1, 2, 3, 4, 2, 4, 6, 8, 0, 0, 1, 0, 0, 0, 0, 1)
	_, err := m.Invert()
	require.ErrorIs(t, err, ErrDomain)
}

func TestMatrix4RowMajorAccess(t *testing.T) {
	m := NewMatrix4[float32](0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15)
	assert.Equal(t, float32(7), m.At(1, 3))
	assert.Equal(t, Vec4[float32](3, 7, 11, 15), m.Col(3))
	assert.Equal(t, Vec4[float32](12, 13, 14, 15), m.Row(3))
	assert.Equal(t, float32(13), m.Transpose().At(1, 3))
	m.Set(0, 0, 42)
	assert.Equal(t, float32(42), m.At(0, 0))
}

func TestToRadians(t *testing.T) {
	assert.InDelta(t, math.Pi, ToRadians(180.0), 1e-15)
	assert.InDelta(t, 90.0, ToDegrees(math.Pi/2), 1e-12)
}
