package packing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanPhasesDefaults(t *testing.T) {
	phases := PlanPhases(50, 0, 250*18, 18)
	require.Len(t, phases, 4)

	names := []string{PhaseLarge, PhaseMedium, PhaseSmall, PhaseMicro}
	attempts := []int{750, 1500, 3000, 5000}
	candidates := []int{25, 35, 45, 30}
	for i, p := range phases {
		assert.Equal(t, names[i], p.Name)
		assert.Equal(t, attempts[i], p.Attempts, p.Name)
		assert.Equal(t, candidates[i], p.CandidatesPerAttempt, p.Name)
		assert.LessOrEqual(t, p.MinRadius, p.MaxRadius, p.Name)
		assert.LessOrEqual(t, p.MaxRadius, 9.0, p.Name)
	}

	// Without variation the large band is a single radius.
	assert.InDelta(t, 1.9454, phases[0].MinRadius, 1e-3)
	assert.Equal(t, phases[0].MinRadius, phases[0].MaxRadius)

	assert.InDelta(t, 0.45, phases[3].MinRadius, 1e-12)
	assert.InDelta(t, 0.4864, phases[3].MaxRadius, 1e-3)
}

func TestPlanPhasesCollapsesInvertedBand(t *testing.T) {
	// At low density the micro upper bound drops below the minimum radius.
	micro := PlanPhases(10, 0, 250*18, 18)[3]
	assert.InDelta(t, 0.45, micro.MinRadius, 1e-12)
	assert.Equal(t, micro.MinRadius, micro.MaxRadius)
}

func TestPlanPhasesVariationWidensBands(t *testing.T) {
	flat := PlanPhases(80, 0, 250*18, 18)
	wide := PlanPhases(80, 100, 250*18, 18)

	for i := range flat {
		assert.Less(t, wide[i].MinRadius, wide[i].MaxRadius, wide[i].Name)
		assert.LessOrEqual(t, wide[i].MinRadius, flat[i].MinRadius, wide[i].Name)
		assert.GreaterOrEqual(t, wide[i].MaxRadius, flat[i].MaxRadius, wide[i].Name)
	}
}

func TestPlanPhasesCapsLargeRadius(t *testing.T) {
	// A long thin bar pushes the base radius past 0.8 × height/2.
	phases := PlanPhases(100, 100, 5000*4, 4)
	assert.InDelta(t, 0.64, phases[0].MinRadius, 1e-9)
	assert.Equal(t, 2.0, phases[0].MaxRadius)
}

func TestPhaseString(t *testing.T) {
	p := Phase{Name: PhaseSmall, MinRadius: 0.5, MaxRadius: 1.25, Attempts: 10, CandidatesPerAttempt: 45}
	assert.Equal(t, "small r=[0.50,1.25] attempts=10 candidates=45", p.String())
}
