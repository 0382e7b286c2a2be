package packing

import "math"

// earlyExitRatio is the fraction of the density target that ends the phase
// loop early.
const earlyExitRatio = 0.95

// Coverage returns the summed circle area divided by area, capped at 1.
// Overlaps are counted twice; this approximates visual fill.
func Coverage(circles []Circle, area float64) float64 {
	t := coverageTracker{area: area}
	t.add(circles...)
	return t.coverage()
}

// coverageTracker keeps a running covered-area sum across phases.
type coverageTracker struct {
	area    float64
	covered float64
}

func (t *coverageTracker) add(circles ...Circle) {
	for _, c := range circles {
		t.covered += c.Area()
	}
}

func (t *coverageTracker) coverage() float64 {
	if t.area <= 0 {
		return 0
	}
	return math.Min(1, t.covered/t.area)
}

// reached reports whether coverage has hit 95% of the density target.
func (t *coverageTracker) reached(density int) bool {
	return t.coverage() >= earlyExitRatio*float64(density)/100
}
