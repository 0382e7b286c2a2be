package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/barpack/pkg/packing"
)

func TestGenerateDefaults(t *testing.T) {
	circles := Generate(250, 18, DefaultParams())
	// Base radius 4.5 gives 27 columns; the ones at x=0 and x=250 are skipped.
	require.Len(t, circles, 2*25)
	for _, c := range circles {
		assert.Equal(t, 4.5, c.R)
	}
	assert.Equal(t, 4.5, circles[0].Y)
	assert.Equal(t, 13.5, circles[len(circles)-1].Y)
}

func TestGenerateDeterministic(t *testing.T) {
	p := Params{Rows: 3, Density: 80, SizeVariationY: 40, SizeVariationX: 70, Overlap: 30, Layout: Stagger}
	assert.Equal(t, Generate(250, 18, p), Generate(250, 18, p))
}

func TestGenerateInsideBox(t *testing.T) {
	tests := []struct {
		name          string
		width, height float64
		params        Params
	}{
		{"defaults", 250, 18, DefaultParams()},
		{"stagger", 250, 18, Params{Rows: 4, Density: 100, Layout: Stagger}},
		{"gradients", 250, 18, Params{Rows: 2, Density: 100, SizeVariationY: 100, SizeVariationX: 100}},
		{"overlap", 120, 30, Params{Rows: 5, Density: 60, Overlap: 100, SizeVariationX: 50}},
		{"capped", 30, 18, Params{Rows: 2, Density: 100, SizeVariationY: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, c := range Generate(tt.width, tt.height, tt.params) {
				assert.Truef(t, c.Inside(tt.width, tt.height), "%+v outside", c)
				assert.GreaterOrEqual(t, c.R, 0.5)
			}
		})
	}
}

func TestGenerateGradients(t *testing.T) {
	circles := Generate(250, 18, Params{Rows: 2, Density: 100, SizeVariationX: 50})
	require.NotEmpty(t, circles)
	first, last := circles[0], circles[len(circles)/2-1]
	assert.Less(t, first.R, last.R, "radius grows left to right")

	circles = Generate(250, 18, Params{Rows: 2, Density: 100, SizeVariationY: 50})
	assert.Greater(t, circles[0].R, circles[len(circles)-1].R, "radius shrinks top to bottom")
}

func TestGenerateStaggerOffsetsOddRows(t *testing.T) {
	straight := Generate(250, 18, Params{Rows: 2, Density: 100, Layout: Straight})
	stagger := Generate(250, 18, Params{Rows: 2, Density: 100, Layout: Stagger})

	var oddStraight, oddStagger []packing.Circle
	for _, c := range straight {
		if c.Y > 9 {
			oddStraight = append(oddStraight, c)
		}
	}
	for _, c := range stagger {
		if c.Y > 9 {
			oddStagger = append(oddStagger, c)
		}
	}
	require.NotEmpty(t, oddStagger)
	assert.Equal(t, 4.5, oddStagger[0].X)
	assert.Greater(t, oddStraight[0].X, 4.5)
	assert.Len(t, oddStagger, len(oddStraight)+1)
}

func TestGenerateOverlapAddsColumns(t *testing.T) {
	base := Generate(250, 18, Params{Rows: 1, Density: 100})
	dense := Generate(250, 18, Params{Rows: 1, Density: 100, Overlap: 100})
	assert.Greater(t, len(dense), len(base))
}

func TestGenerateThinBarColumnsFollowDrawnRadius(t *testing.T) {
	// Base radius 0.00125 is drawn at the 0.25 cap: 400 columns, not 160000.
	circles := Generate(100, 0.5, Params{Rows: 20, Density: 10, Overlap: 100})
	require.Len(t, circles, 20*398)
	for _, c := range circles {
		assert.Equal(t, 0.25, c.R)
		assert.Truef(t, c.Inside(100, 0.5), "%+v outside", c)
	}

	// Radii raised to the 0.5 floor space their columns one diameter apart.
	circles = Generate(250, 18, Params{Rows: 20, Density: 10})
	require.NotEmpty(t, circles)
	assert.LessOrEqual(t, len(circles), 20*250)
	assert.GreaterOrEqual(t, circles[1].X-circles[0].X, 1.0)
}

func TestGenerateCircleCountBounded(t *testing.T) {
	circles := Generate(10000, 0.001, Params{Rows: 20, Density: 100, Overlap: 100})
	require.NotEmpty(t, circles)
	assert.LessOrEqual(t, len(circles), MaxCircles)
}

func TestGenerateDegenerate(t *testing.T) {
	assert.Nil(t, Generate(250, 18, Params{Rows: 0, Density: 100}))
	assert.Nil(t, Generate(0, 18, DefaultParams()))
	assert.Nil(t, Generate(250, -1, DefaultParams()))
}

func TestClamp(t *testing.T) {
	got := Params{Rows: 99, Density: 1, SizeVariationY: 200, SizeVariationX: -4, Overlap: 101, Layout: "diagonal"}.Clamp()
	assert.Equal(t, Params{Rows: MaxRows, Density: 10, SizeVariationY: 100, Overlap: 100, Layout: Straight}, got)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "grid-2-100-0-0-0-straight-250-18", DefaultParams().Key(250, 18))
}
