package geomhelp

import (
	"math"
	"slices"
)

// SignedArea returns the area of a ring, positive when it runs counter-clockwise with y up.
// A closing vertex equal to the first is allowed.
// https://en.wikipedia.org/wiki/Shoelace_formula
func SignedArea(pts [][2]float64) float64 {
	sum := 0.
	if len(pts) == 0 {
		return 0.
	}

	p0 := pts[len(pts)-1]
	for _, p1 := range pts {
		sum += p0[0]*p1[1] - p1[0]*p0[1]
		p0 = p1
	}
	return sum / 2
}

func Shoelace(pts [][2]float64) float64 {
	return math.Abs(SignedArea(pts))
}

func IsClockwise(pts [][2]float64) bool {
	return SignedArea(pts) < 0
}

// Orient returns the order of the vertices of a ring that makes it wind the requested way.
// Degenerate rings keep their order.
func Orient(pts [][2]float64, clockwise bool) []int {
	order := make([]int, len(pts))
	for i := range order {
		order[i] = i
	}
	area := SignedArea(pts)
	if area != 0 && (area < 0) != clockwise {
		slices.Reverse(order)
	}
	return order
}
