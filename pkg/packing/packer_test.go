package packing

import (
	"bytes"
	"math"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

const eps = 1e-9

func defaultParams() Params {
	return Params{Density: 50, Width: 250, Height: 18}
}

func assertValidLayout(t *testing.T, p Params, circles []Circle) {
	t.Helper()
	m := MinDistanceMultiplier(p.OverlapAmount)
	for i, a := range circles {
		require.Truef(t, a.Inside(p.Width, p.Height), "circle %d %+v outside %gx%g", i, a, p.Width, p.Height)
		require.LessOrEqual(t, a.R, p.Height/2+eps)
		require.Greater(t, a.R, 0.0)
		for j := i + 1; j < len(circles); j++ {
			b := circles[j]
			require.GreaterOrEqualf(t, a.Distance(b), (a.R+b.R)*m-eps,
				"circles %d and %d too close at overlap %d", i, j, p.OverlapAmount)
		}
	}
}

func TestGenerateInvariants(t *testing.T) {
	tests := []struct {
		name   string
		params Params
	}{
		{"defaults", defaultParams()},
		{"sparse", Params{Density: 10, Width: 250, Height: 18}},
		{"dense varied", Params{Density: 100, SizeVariation: 100, Width: 250, Height: 18}},
		{"half overlap", Params{Density: 70, SizeVariation: 40, OverlapAmount: 50, Width: 250, Height: 18}},
		{"full overlap", Params{Density: 60, SizeVariation: 20, OverlapAmount: 100, Width: 250, Height: 18}},
		{"tall box", Params{Density: 50, SizeVariation: 50, Width: 60, Height: 60}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Generate(tt.params, WithSeed(42))
			require.NotEmpty(t, res.Circles)
			assertValidLayout(t, res.Params, res.Circles)
			assert.InDelta(t, Coverage(res.Circles, res.Params.Area()), res.Coverage, eps)
		})
	}
}

func TestGenerateClampsInputs(t *testing.T) {
	res := Generate(Params{Density: 500, SizeVariation: -3, OverlapAmount: 900, Width: 100, Height: 10}, WithSeed(1))
	assert.Equal(t, Params{Density: 100, SizeVariation: 0, OverlapAmount: 100, Width: 100, Height: 10}, res.Params)
	assertValidLayout(t, res.Params, res.Circles)
}

func TestGenerateDeterministicWithSeed(t *testing.T) {
	a := Generate(defaultParams(), WithSeed(99))
	b := Generate(defaultParams(), WithSeed(99))
	assert.Equal(t, a, b)

	c := Generate(defaultParams(), WithSeed(100))
	assert.NotEqual(t, a.Circles, c.Circles)
}

func TestGenerateDegenerateBox(t *testing.T) {
	for _, p := range []Params{
		{Density: 50, Width: 0, Height: 18},
		{Density: 50, Width: 250, Height: 0},
		{Density: 50, Width: -10, Height: 18},
		{Density: 50, Width: math.NaN(), Height: 18},
		{Density: 50, Width: math.Inf(1), Height: 18},
	} {
		res := Generate(p, WithSeed(1))
		assert.NotNil(t, res.Circles)
		assert.Empty(t, res.Circles)
		assert.Zero(t, res.Coverage)
	}
}

func TestGenerateSparseUsesLargeBand(t *testing.T) {
	p := Params{Density: 10, Width: 250, Height: 18}
	res := Generate(p, WithSeed(5))
	assert.GreaterOrEqual(t, len(res.Circles), 10)
	assert.LessOrEqual(t, len(res.Circles), 120)

	large := PlanPhases(p.Density, p.SizeVariation, p.Area(), p.Height)[0].MinRadius
	same := 0
	for _, c := range res.Circles {
		if c.R == large {
			same++
		}
	}
	assert.GreaterOrEqual(t, float64(same), 0.9*float64(len(res.Circles)))
}

func TestGenerateDenseVariedSpread(t *testing.T) {
	res := Generate(Params{Density: 100, SizeVariation: 100, Width: 250, Height: 18}, WithSeed(3))
	require.GreaterOrEqual(t, len(res.Circles), 100)

	minR, maxR := math.Inf(1), 0.0
	for _, c := range res.Circles {
		minR = math.Min(minR, c.R)
		maxR = math.Max(maxR, c.R)
	}
	assert.GreaterOrEqual(t, maxR/minR, 4.0)
	assert.GreaterOrEqual(t, res.Coverage, 0.15)
}

func TestGenerateOverlapRaisesCoverage(t *testing.T) {
	res := Generate(Params{Density: 100, SizeVariation: 100, OverlapAmount: 50, Width: 250, Height: 18}, WithSeed(3))
	assert.GreaterOrEqual(t, res.Coverage, 0.5)
}

func TestGeneratePhaseCoverageMonotone(t *testing.T) {
	res := Generate(Params{Density: 80, SizeVariation: 60, Width: 250, Height: 18}, WithSeed(8))
	require.NotEmpty(t, res.Phases)
	assert.LessOrEqual(t, len(res.Phases), 4)

	prev, placed := 0.0, 0
	for _, ph := range res.Phases {
		assert.GreaterOrEqual(t, ph.Coverage, prev, ph.Name)
		prev = ph.Coverage
		placed += ph.Placed
	}
	assert.GreaterOrEqual(t, res.Coverage, prev)
	assert.Equal(t, len(res.Circles), placed+res.GapFilled)
}

func TestGenerateStableAcrossSeeds(t *testing.T) {
	const runs = 20
	coverages := make([]float64, runs)
	counts := make([]float64, runs)
	layouts := make(map[Circle]bool)
	for i := range runs {
		res := Generate(defaultParams(), WithSeed(uint64(1000+i)))
		coverages[i] = res.Coverage
		counts[i] = float64(len(res.Circles))
		layouts[res.Circles[0]] = true
	}

	mean, _ := stat.MeanStdDev(coverages, nil)
	require.Greater(t, mean, 0.0)
	for i, c := range coverages {
		assert.InDeltaf(t, mean, c, 0.1*mean, "coverage of run %d", i)
	}
	meanCount, _ := stat.MeanStdDev(counts, nil)
	for i, n := range counts {
		assert.InDeltaf(t, meanCount, n, 0.1*meanCount, "circle count of run %d", i)
	}
	assert.Greater(t, len(layouts), 1)
}

func TestGenerateLogsPhases(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	Generate(defaultParams(), WithSeed(2), WithLogger(logger))
	assert.Contains(t, buf.String(), "packing phase done")
	assert.Contains(t, buf.String(), "packing done")
}

func TestParamsKey(t *testing.T) {
	assert.Equal(t, "packing-50-0-0-250-18", defaultParams().Key())
	assert.Equal(t, "packing-10-5-7-120.5-9", Params{10, 5, 7, 120.5, 9}.Key())
}
