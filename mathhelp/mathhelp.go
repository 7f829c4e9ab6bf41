package mathhelp

import (
	"math"

	"golang.org/x/exp/constraints"
)

func Clamp[T constraints.Ordered](v, lo, hi T) T {
	return max(lo, min(v, hi))
}

func Bool2Float(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// EuclidianMod is the remainder of d/m with the sign of m.
func EuclidianMod(d, m float64) float64 {
	r := math.Mod(d, m)
	if (r < 0 && m > 0) || (r > 0 && m < 0) {
		return r + m
	}
	return r
}

// WrapLongitude maps a longitude outside [-180, 180] to [-180, 180).
// Both sides of the antimeridian are kept as they are.
func WrapLongitude(lng float64) float64 {
	if lng >= -180 && lng <= 180 {
		return lng
	}
	return EuclidianMod(lng+180, 360) - 180
}
