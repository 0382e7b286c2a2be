package packing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLensArea(t *testing.T) {
	tests := []struct {
		name               string
		x1, y1, r1, x2, y2 float64
		r2                 float64
		want               float64
	}{
		{"disjoint", 0, 0, 1, 5, 0, 1, 0},
		{"tangent", 0, 0, 1, 2, 0, 1, 0},
		{"contained", 0, 0, 5, 1, 0, 1, math.Pi},
		{"concentric", 3, 3, 2, 3, 3, 4, 4 * math.Pi},
		// Two unit circles one radius apart share 2π/3 − √3/2.
		{"half offset unit", 0, 0, 1, 1, 0, 1, 2*math.Pi/3 - math.Sqrt(3)/2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LensArea(tt.x1, tt.y1, tt.r1, tt.x2, tt.y2, tt.r2)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestLensAreaSymmetric(t *testing.T) {
	a := LensArea(0, 0, 3, 2.5, 1, 1.5)
	b := LensArea(2.5, 1, 1.5, 0, 0, 3)
	assert.InDelta(t, a, b, 1e-9)
	assert.Greater(t, a, 0.0)
	assert.Less(t, a, math.Pi*1.5*1.5)
}

func TestMinDistanceMultiplier(t *testing.T) {
	assert.Equal(t, 2.0, MinDistanceMultiplier(0))
	assert.InDelta(t, 1.1, MinDistanceMultiplier(50), 1e-12)
	assert.InDelta(t, 0.2, MinDistanceMultiplier(100), 1e-12)
	assert.InDelta(t, 0.2, MinDistanceMultiplier(250), 1e-12)
	assert.Equal(t, 2.0, MinDistanceMultiplier(-5))
}

func TestFallback(t *testing.T) {
	got := Fallback(250, 18)
	if assert.Len(t, got, 1) {
		assert.Equal(t, 125.0, got[0].X)
		assert.Equal(t, 9.0, got[0].Y)
		assert.InDelta(t, 7.2, got[0].R, 1e-12)
	}
	assert.Nil(t, Fallback(0, 18))
}
