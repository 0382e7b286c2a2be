package packing

import (
	"cmp"
	"math"
	"slices"
)

// Gap-filling limits.
const (
	maxGapSamples  = 2000
	gapSampleArea  = 50.0 // one sample per this much area
	maxGaps        = 100
	gapAttempts    = 20
	gapFillRatio   = 0.8
	gapMinFraction = 0.5
)

// Gap is a free-space point and the largest radius that fits there.
type Gap struct {
	X         float64
	Y         float64
	MaxRadius float64
}

// IdentifyGaps samples min(2000, ⌈area/50⌉) random points and returns up to 100
// of them, largest inscribable radius first. Points whose radius does not
// exceed width/200 are dropped.
func IdentifyGaps(rng Source, width, height float64, circles []Circle) []Gap {
	samples := int(math.Min(maxGapSamples, math.Ceil(width*height/gapSampleArea)))
	threshold := width / 200

	var gaps []Gap
	for range samples {
		x := rng.Float64() * width
		y := rng.Float64() * height

		maxRadius := math.Min(math.Min(x, width-x), math.Min(y, height-y))
		for _, c := range circles {
			maxRadius = math.Min(maxRadius, math.Hypot(x-c.X, y-c.Y)-c.R)
		}
		if maxRadius > threshold {
			gaps = append(gaps, Gap{X: x, Y: y, MaxRadius: maxRadius})
		}
	}

	slices.SortStableFunc(gaps, func(a, b Gap) int {
		return cmp.Compare(b.MaxRadius, a.MaxRadius)
	})
	if len(gaps) > maxGaps {
		gaps = gaps[:maxGaps]
	}
	return gaps
}

// fillGaps drops at most one circle into each gap. Each new circle must keep
// the separation rule against every circle placed so far, earlier gap
// circles included.
func fillGaps(rng Source, width, height float64, circles []Circle, sizeVariation int, multiplier float64) []Circle {
	gaps := IdentifyGaps(rng, width, height, circles)
	all := slices.Clip(circles)
	var filled []Circle

	for _, gap := range gaps {
		if gap.MaxRadius < width/100 {
			continue
		}

		target := gap.MaxRadius * gapFillRatio
		variation := target * float64(sizeVariation) / 400

		for range gapAttempts {
			r := math.Max(target*gapMinFraction, target+(rng.Float64()-0.5)*variation)
			if collides(gap.X, gap.Y, r, all, multiplier) {
				continue
			}
			c := Circle{X: gap.X, Y: gap.Y, R: r}
			all = append(all, c)
			filled = append(filled, c)
			break
		}
	}
	return filled
}
