package packing

import "math"

// boundsEpsilon absorbs float rounding when checking containment.
const boundsEpsilon = 1e-9

// Circle is a placed circle in local bar coordinates.
type Circle struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	R float64 `json:"r"`
}

// Area returns the circle's area.
func (c Circle) Area() float64 {
	return math.Pi * c.R * c.R
}

// Inside reports whether c lies fully within [0,width]×[0,height].
func (c Circle) Inside(width, height float64) bool {
	return c.R >= 0 &&
		c.X-c.R >= -boundsEpsilon && c.X+c.R <= width+boundsEpsilon &&
		c.Y-c.R >= -boundsEpsilon && c.Y+c.R <= height+boundsEpsilon
}

// Distance returns the center-to-center distance between c and o.
func (c Circle) Distance(o Circle) float64 {
	return math.Hypot(c.X-o.X, c.Y-o.Y)
}

// MinDistanceMultiplier maps an overlap amount in [0,100] to the factor
// applied to the sum of radii when checking separation.
// It is 2.0 at zero overlap and decreases linearly to 0.2 at 100.
func MinDistanceMultiplier(overlapAmount int) float64 {
	if overlapAmount <= 0 {
		return 2.0
	}
	overlapAmount = min(overlapAmount, 100)
	return 2.0 - float64(overlapAmount)/100*1.8
}

// Fallback returns the degraded layout used when generation fails: a single
// circle of radius 0.8×min(width,height)/2 centered in the box.
func Fallback(width, height float64) []Circle {
	if width <= 0 || height <= 0 {
		return nil
	}
	return []Circle{{X: width / 2, Y: height / 2, R: 0.8 * math.Min(width, height) / 2}}
}

func inBounds(x, y, r, width, height float64) bool {
	return x-r >= 0 && x+r <= width && y-r >= 0 && y+r <= height
}

func collides(x, y, r float64, circles []Circle, multiplier float64) bool {
	for _, o := range circles {
		if math.Hypot(x-o.X, y-o.Y) < (r+o.R)*multiplier {
			return true
		}
	}
	return false
}
