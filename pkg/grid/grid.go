// Package grid lays circles out in regular rows and columns.
//
// Unlike [packing.Generate], the grid layout is fully deterministic: equal
// inputs always produce the same circle list. Size gradients run top to
// bottom (SizeVariationY) and left to right (SizeVariationX), and the
// overlap setting packs extra columns into each row.
package grid

import (
	"fmt"
	"math"

	"github.com/matzehuels/barpack/pkg/packing"
)

// Layout selects how consecutive rows align.
type Layout string

const (
	// Straight stacks columns directly above each other.
	Straight Layout = "straight"
	// Stagger shifts every odd row right by one base radius.
	Stagger Layout = "stagger"
)

// ValidLayouts lists the accepted layout names.
var ValidLayouts = map[Layout]bool{Straight: true, Stagger: true}

const (
	// MaxRows bounds the row count accepted by [Params.Clamp].
	MaxRows = 20

	// MaxCircles bounds the size of one layout. Columns are dropped from
	// the right of every row once rows × columns would exceed it.
	MaxCircles = 20000

	// minRadius is the smallest radius the gradients may shrink a circle to.
	minRadius = 0.5
)

// Params configures a grid layout.
type Params struct {
	Rows           int    `json:"rows" toml:"rows"`
	Density        int    `json:"density" toml:"density"`
	SizeVariationY int    `json:"size_variation_y" toml:"size_variation_y"`
	SizeVariationX int    `json:"size_variation_x" toml:"size_variation_x"`
	Overlap        int    `json:"overlap" toml:"overlap"`
	Layout         Layout `json:"layout" toml:"layout"`
}

// DefaultParams returns two straight rows at full density.
func DefaultParams() Params {
	return Params{Rows: 2, Density: 100, Layout: Straight}
}

// Clamp limits rows to at most MaxRows, density to [10,100] and the
// variations and overlap to [0,100]. An unknown layout becomes Straight.
func (p Params) Clamp() Params {
	p.Rows = min(MaxRows, p.Rows)
	p.Density = packing.ClampDensity(p.Density)
	p.SizeVariationY = max(0, min(packing.MaxPercent, p.SizeVariationY))
	p.SizeVariationX = max(0, min(packing.MaxPercent, p.SizeVariationX))
	p.Overlap = max(0, min(packing.MaxPercent, p.Overlap))
	if !ValidLayouts[p.Layout] {
		p.Layout = Straight
	}
	return p
}

// Key renders p and the box size as a cache key.
func (p Params) Key(width, height float64) string {
	return fmt.Sprintf("grid-%d-%d-%d-%d-%d-%s-%g-%g",
		p.Rows, p.Density, p.SizeVariationY, p.SizeVariationX, p.Overlap, p.Layout, width, height)
}

// Generate returns the grid circles for a width×height box, row by row.
// It returns nil when rows < 1 or the box is degenerate.
func Generate(width, height float64, p Params) []packing.Circle {
	if p.Rows < 1 || !(width > 0 && height > 0) || math.IsInf(width*height, 0) {
		return nil
	}
	p = p.Clamp()

	baseRadius := height / float64(p.Rows*2) * float64(p.Density) / 100
	rowHeight := height / float64(p.Rows)
	maxR := math.Min(width, height) / 2

	// Columns follow the radius circles are actually drawn with, so thin
	// bars do not stack thousands of clamped circles on one spot.
	colRadius := math.Min(maxR, math.Max(minRadius, baseRadius))
	cols := int(math.Floor(math.Floor(width/(2*colRadius)) * (1 + float64(p.Overlap)/100)))
	cols = max(1, min(cols, MaxCircles/p.Rows))
	spacing := width / float64(max(1, cols-1))

	var circles []packing.Circle
	for row := range p.Rows {
		rowProgress := progress(row, p.Rows)
		y := rowHeight*float64(row) + rowHeight/2
		yFactor := 1 + float64(p.SizeVariationY)/100*(1-2*rowProgress)

		offset := 0.0
		if p.Layout == Stagger && row%2 == 1 {
			offset = baseRadius
		}

		for col := range cols {
			x := offset + float64(col)*spacing
			if x < baseRadius || x > width-baseRadius {
				continue
			}
			xFactor := 1 + float64(p.SizeVariationX)/100*(2*progress(col, cols)-1)

			r := math.Min(maxR, math.Max(minRadius, baseRadius*yFactor*xFactor))
			circles = append(circles, packing.Circle{
				X: clamp(x, r, width-r),
				Y: clamp(y, r, height-r),
				R: r,
			})
		}
	}
	return circles
}

// progress maps i in [0,n) onto [0,1]; a single slot sits at 0.5.
func progress(i, n int) float64 {
	if n <= 1 {
		return 0.5
	}
	return float64(i) / float64(n-1)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
