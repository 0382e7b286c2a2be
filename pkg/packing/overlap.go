package packing

import "math"

// LensArea returns the area shared by the circles (x1,y1,r1) and (x2,y2,r2).
//
// Disjoint circles share nothing, a circle contained in the other contributes
// its whole area, and partially overlapping circles use the closed-form sum
// of two circular segments.
func LensArea(x1, y1, r1, x2, y2, r2 float64) float64 {
	d := math.Hypot(x2-x1, y2-y1)
	if d >= r1+r2 {
		return 0
	}
	if d <= math.Abs(r1-r2) {
		m := math.Min(r1, r2)
		return math.Pi * m * m
	}

	a := r1 * r1
	b := r2 * r2
	x := (a - b + d*d) / (2 * d)
	z := x - d
	y := math.Sqrt(math.Max(0, a-x*x))

	return a*math.Acos(clampUnit(x/r1)) + b*math.Acos(clampUnit(-z/r2)) - y*d
}

// clampUnit keeps acos arguments inside [-1,1] when rounding pushes them out.
func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
