package packing

// runPass executes one phase against idx, which already holds every circle
// placed so far. Winners are inserted into idx and returned in placement
// order. An attempt without a viable candidate places nothing.
func runPass(rng Source, idx *SpatialIndex, width, height float64, phase Phase, multiplier float64) []Circle {
	var placed []Circle
	span := phase.MaxRadius - phase.MinRadius

	for range phase.Attempts {
		var best Circle
		bestScore := 0.0
		found := false

		for range phase.CandidatesPerAttempt {
			r := phase.MinRadius + rng.Float64()*span
			x := r + rng.Float64()*(width-2*r)
			y := r + rng.Float64()*(height-2*r)

			if !inBounds(x, y, r, width, height) || idx.Collides(x, y, r, multiplier) {
				continue
			}
			if score := idx.score(x, y, r, width, height); !found || score > bestScore {
				best = Circle{X: x, Y: y, R: r}
				bestScore = score
				found = true
			}
		}

		if found {
			idx.Insert(best)
			placed = append(placed, best)
		}
	}
	return placed
}
