package packing

import (
	"fmt"
	"math"
)

// Phase configures one packing pass.
type Phase struct {
	Name                 string
	MinRadius            float64
	MaxRadius            float64
	Attempts             int
	CandidatesPerAttempt int
}

// String returns a compact description used in debug logs.
func (p Phase) String() string {
	return fmt.Sprintf("%s r=[%.2f,%.2f] attempts=%d candidates=%d",
		p.Name, p.MinRadius, p.MaxRadius, p.Attempts, p.CandidatesPerAttempt)
}

// Phase band names, in execution order.
const (
	PhaseLarge  = "large"
	PhaseMedium = "medium"
	PhaseSmall  = "small"
	PhaseMicro  = "micro"
)

// PlanPhases derives the four radius bands and attempt budgets for a bar of
// the given area and height. density must be in [10,100] and sizeVariation
// in [0,100]; Generate clamps them before calling.
//
// The band constants are tuned for the visual result and kept as-is.
func PlanPhases(density, sizeVariation int, area, barHeight float64) []Phase {
	absoluteMaxRadius := barHeight / 2
	minPossibleRadius := math.Min(0.5, absoluteMaxRadius*0.05)
	variationFactor := float64(sizeVariation) / 100
	d := float64(density)

	baseSizeFactor := math.Sqrt(area) / 50
	baseRadius := math.Min(baseSizeFactor*(1.2+d/200), absoluteMaxRadius*0.8)

	mediumBase := baseRadius * 0.65
	smallBase := baseRadius * 0.4
	microBase := baseRadius * 0.25

	return []Phase{
		band(PhaseLarge,
			math.Max(minPossibleRadius, baseRadius*(1-variationFactor*0.6)),
			math.Min(absoluteMaxRadius, baseRadius*(1+variationFactor*1.2)),
			int(math.Floor(d*15)), 25),
		band(PhaseMedium,
			math.Max(minPossibleRadius, mediumBase*(1-variationFactor*0.7)),
			math.Min(absoluteMaxRadius*0.8, mediumBase*(1+variationFactor*0.8)),
			int(math.Floor(d*30)), 35),
		band(PhaseSmall,
			math.Max(minPossibleRadius, smallBase*(1-variationFactor*0.8)),
			math.Min(absoluteMaxRadius*0.6, smallBase*(1+variationFactor*0.6)),
			int(math.Floor(d*60)), 45),
		band(PhaseMicro,
			minPossibleRadius,
			math.Min(absoluteMaxRadius*0.4, microBase*(1+variationFactor*0.4)),
			int(math.Floor(d*100)), 30),
	}
}

// band builds a Phase, collapsing an inverted radius range onto its minimum.
func band(name string, minR, maxR float64, attempts, candidates int) Phase {
	return Phase{
		Name:                 name,
		MinRadius:            minR,
		MaxRadius:            math.Max(minR, maxR),
		Attempts:             attempts,
		CandidatesPerAttempt: candidates,
	}
}
