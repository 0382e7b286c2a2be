package packing

import "math"

// Scoring weights and the local-density search radius factor.
const (
	clearanceWeight = 0.6
	edgeWeight      = 0.2
	densityWeight   = 0.2

	densitySearchFactor = 8.0
)

// Score rates a candidate circle against the circles already placed.
// Higher is better:
//
//	0.6×minClearance + 0.2×edgeScore + 0.2×densityScore
//
// minClearance is the smallest edge-to-edge gap to any other circle (+Inf
// when there are none), edgeScore is the clearance to the nearest box edge
// normalized by 2r and capped at 1, and densityScore is one minus the
// fraction of the 8r search disk covered by neighbors.
func Score(c Circle, others []Circle, width, height float64) float64 {
	clearance := math.Inf(1)
	searchR := densitySearchFactor * c.R
	occupied := 0.0
	for _, o := range others {
		d := math.Hypot(c.X-o.X, c.Y-o.Y)
		clearance = math.Min(clearance, d-o.R-c.R)
		if d < searchR+o.R {
			occupied += LensArea(c.X, c.Y, searchR, o.X, o.Y, o.R)
		}
	}
	return combineScore(clearance, edgeScore(c.X, c.Y, c.R, width, height), densityScore(occupied, searchR))
}

// score is Score restricted to the index's neighborhood of the candidate.
// It falls back to a full scan only when no nearby circle bounds the
// clearance term.
func (s *SpatialIndex) score(x, y, r, width, height float64) float64 {
	searchR := densitySearchFactor * r
	reach := searchR + s.maxR

	clearance := math.Inf(1)
	occupied := 0.0
	s.Visit(x, y, reach, func(o Circle) bool {
		d := math.Hypot(x-o.X, y-o.Y)
		clearance = math.Min(clearance, d-o.R-r)
		if d < searchR+o.R {
			occupied += LensArea(x, y, searchR, o.X, o.Y, o.R)
		}
		return true
	})

	// Unvisited circles are at least reach-r away edge to edge.
	if clearance > reach-r {
		for _, o := range s.circles {
			clearance = math.Min(clearance, math.Hypot(x-o.X, y-o.Y)-o.R-r)
		}
	}
	return combineScore(clearance, edgeScore(x, y, r, width, height), densityScore(occupied, searchR))
}

func edgeScore(x, y, r, width, height float64) float64 {
	edge := math.Min(math.Min(x-r, width-x-r), math.Min(y-r, height-y-r))
	return math.Min(1, edge/(2*r))
}

func densityScore(occupied, searchR float64) float64 {
	return math.Max(0, 1-occupied/(math.Pi*searchR*searchR))
}

func combineScore(clearance, edge, density float64) float64 {
	return clearance*clearanceWeight + edge*edgeWeight + density*densityWeight
}
