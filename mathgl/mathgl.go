// Package mathgl is a small generic vector and matrix kernel for camera and projection math.
// Vectors are column vectors, matrices are addressed (row, col) and compose so that
// a.Mul(b) applied to a point applies b first.
package mathgl

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// Float is the coordinate type of all vectors and matrices.
type Float = constraints.Float

// Epsilon is the tolerance used by every Equals in this package, for float32 and float64 alike.
// It defaults to the machine epsilon of float32.
var Epsilon = float64(math.Nextafter32(1, 2) - 1)

// ErrDomain is returned for mathematically invalid input.
var ErrDomain = errors.New(`domain error`)

var (
	errZeroLength = fmt.Errorf(`%w: normalize called on zero length vector`, ErrDomain)
	errSingular   = fmt.Errorf(`%w: singular matrix`, ErrDomain)
)

// EqualsApprox compares a and b relative to their magnitude (absolute near zero).
func EqualsApprox[T Float](a, b T) bool {
	fa, fb := float64(a), float64(b)
	if fa == fb {
		return true
	}
	return math.Abs(fa-fb) <= Epsilon*math.Max(1, math.Max(math.Abs(fa), math.Abs(fb)))
}

// ToRadians converts degrees to radians.
func ToRadians[T Float](degrees T) T {
	return degrees * T(math.Pi/180)
}

// ToDegrees converts radians to degrees.
func ToDegrees[T Float](radians T) T {
	return radians * T(180/math.Pi)
}

func sqrt[T Float](v T) T {
	return T(math.Sqrt(float64(v)))
}

func sincos[T Float](rad T) (T, T) {
	s, c := math.Sincos(float64(rad))
	return T(s), T(c)
}
