package equilibrium

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubMinimizer scripts the global-search collaborator: one solution (and
// optionally one energy) per expected call, recorded call arguments for
// inspection.
type stubMinimizer struct {
	solutions [][]float64
	energies  []float64 // nil means evaluate the objective at the solution

	calls    int
	bounds   [][2]float64
	popSizes []int
}

func (s *stubMinimizer) Minimize(objective func([]float64) float64, bounds [][2]float64, popSize int) ([]float64, float64, error) {
	i := s.calls
	s.calls++
	s.bounds = bounds
	s.popSizes = append(s.popSizes, popSize)

	x := s.solutions[i]
	if s.energies != nil {
		return x, s.energies[i], nil
	}
	return x, objective(x), nil
}

func TestPopulationSize(t *testing.T) {
	assert.Equal(t, 30, populationSize(2))
	assert.Equal(t, 60, populationSize(4))
	assert.Equal(t, 100, populationSize(7), "15·7 exceeds the cap")
	assert.Equal(t, 100, populationSize(10))
}

func TestCalculateEquilibriumRejectsInvalidConfiguration(t *testing.T) {
	model := constantFugacityModel{components: 2, value: 1.0}
	z := []float64{0.4, 0.6}
	stub := &stubMinimizer{}

	cases := []struct {
		name string
		opt  Option
		want error
	}{
		{"one trial phase", WithTrialPhases(1), ErrTrialPhaseCount},
		{"five trial phases", WithTrialPhases(5), ErrTrialPhaseCount},
		{"zero recombination", WithRecombination(0), ErrRecombination},
		{"recombination above one", WithRecombination(1.5), ErrRecombination},
		{"zero mutation", WithMutation(0), ErrMutation},
		{"mutation at two", WithMutation(2.0), ErrMutation},
		{"equal dithering endpoints", WithMutationDither(0.5, 0.5), ErrMutation},
		{"dithering endpoint out of range", WithMutationDither(-0.1, 0.5), ErrMutation},
		{"negative tolerance", WithTolerance(-1e-8), ErrTolerance},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CalculateEquilibrium(model, 1e5, 300, z, tc.opt, WithMinimizer(stub))
			require.ErrorIs(t, err, tc.want)
		})
	}
	assert.Zero(t, stub.calls, "invalid configurations must be rejected before any optimization")
}

func TestCalculateEquilibriumFixedMode(t *testing.T) {
	model := constantFugacityModel{components: 2, value: 2.0}
	z := []float64{0.4, 0.6}
	// Component 0 fully into phase 0, component 1 left for the closure
	// phase.
	stub := &stubMinimizer{solutions: [][]float64{{1, 0}}}

	result, err := CalculateEquilibrium(model, 1e5, 300, z,
		WithTrialPhases(2), WithMinimizer(stub))
	require.NoError(t, err)

	require.Equal(t, 1, stub.calls)
	require.Equal(t, []int{30}, stub.popSizes, "two decision variables give a population of 30")
	require.Len(t, stub.bounds, 2)
	for _, b := range stub.bounds {
		assert.Equal(t, [2]float64{0, 1}, b)
	}

	assert.Equal(t, StatusSucceed, result.Status)
	assert.Equal(t, 2, result.NumberOfPhases)
	require.Len(t, result.F, 2)
	assert.InDelta(t, 0.4, result.F[0], 1e-12)
	assert.InDelta(t, 0.6, result.F[1], 1e-12)
	assert.InDelta(t, 1.0, result.X.At(0, 0), 1e-12)
	assert.InDelta(t, 0.0, result.X.At(0, 1), 1e-12)
	assert.InDelta(t, 0.0, result.X.At(1, 0), 1e-12)
	assert.InDelta(t, 1.0, result.X.At(1, 1), 1e-12)
	assert.InDelta(t, math.Log(2.0), result.ReducedGibbsEnergy, 1e-12,
		"energy of the accepted vector under a constant-fugacity model")
}

func TestCalculateEquilibriumFixedModeSkipsPlausibilityCheck(t *testing.T) {
	// A deliberately degenerate 50/50 split: both phases identical. The
	// fixed-count branch accepts it verbatim; only comparison mode applies
	// the duplicate-phase check.
	model := constantFugacityModel{components: 2, value: 2.0}
	z := []float64{0.4, 0.6}
	stub := &stubMinimizer{solutions: [][]float64{{0.5, 0.5}}}

	result, err := CalculateEquilibrium(model, 1e5, 300, z,
		WithTrialPhases(2), WithMinimizer(stub))
	require.NoError(t, err)
	assert.Equal(t, StatusSucceed, result.Status)
	assert.Equal(t, 2, result.NumberOfPhases)
}

func TestCalculateEquilibriumComparisonImmediateFailure(t *testing.T) {
	// Single component: the two-phase trial necessarily yields duplicate
	// (or vanished) phases, so the very first comparison point fails.
	model := constantFugacityModel{components: 1, value: 1.5}
	z := []float64{1.0}
	stub := &stubMinimizer{solutions: [][]float64{{0.5}}}

	result, err := CalculateEquilibrium(model, 1e5, 300, z,
		WithTrialPhases(3), WithCompare(true), WithMinimizer(stub))
	require.NoError(t, err, "non-convergence is a result, not an error")

	assert.Equal(t, 1, stub.calls, "the failed two-phase point must stop the comparison loop")
	assert.Equal(t, StatusFailure, result.Status)
	assert.Equal(t, 1, result.NumberOfPhases)
	assert.Nil(t, result.F)
	assert.Nil(t, result.X)
	assert.True(t, math.IsInf(result.ReducedGibbsEnergy, 1))
}

func TestCalculateEquilibriumComparisonKeepsPreviousOnRegression(t *testing.T) {
	model := constantFugacityModel{components: 2, value: 2.0}
	z := []float64{0.4, 0.6}
	stub := &stubMinimizer{
		solutions: [][]float64{
			{1, 0},       // 2 trial phases: clean split
			{1, 0, 0, 0}, // 3 trial phases: distinct rows but worse energy
		},
		energies: []float64{-1.0, -0.5},
	}

	result, err := CalculateEquilibrium(model, 1e5, 300, z,
		WithTrialPhases(3), WithCompare(true), WithMinimizer(stub))
	require.NoError(t, err)

	assert.Equal(t, 2, stub.calls)
	assert.Equal(t, StatusSucceed, result.Status)
	assert.Equal(t, 2, result.NumberOfPhases, "the regressing three-phase trial must be discarded")
	assert.InDelta(t, -1.0, result.ReducedGibbsEnergy, 1e-15)
	require.Len(t, result.F, 2)
	assert.InDelta(t, 0.4, result.F[0], 1e-12)
	assert.InDelta(t, 0.6, result.F[1], 1e-12)
}

func TestCalculateEquilibriumComparisonAcceptsImprovement(t *testing.T) {
	model := constantFugacityModel{components: 2, value: 2.0}
	z := []float64{0.4, 0.6}
	stub := &stubMinimizer{
		solutions: [][]float64{
			{1, 0},       // 2 trial phases
			{1, 0, 0, 0}, // 3 trial phases: distinct rows, lower energy
		},
		energies: []float64{-1.0, -2.0},
	}

	result, err := CalculateEquilibrium(model, 1e5, 300, z,
		WithTrialPhases(3), WithCompare(true), WithMinimizer(stub))
	require.NoError(t, err)

	assert.Equal(t, 2, stub.calls)
	assert.Equal(t, StatusSucceed, result.Status)
	assert.Equal(t, 3, result.NumberOfPhases)
	assert.InDelta(t, -2.0, result.ReducedGibbsEnergy, 1e-15)
	require.Len(t, result.F, 3)
	assert.InDelta(t, 0.4, result.F[0], 1e-12)
	assert.InDelta(t, 0.0, result.F[1], 1e-12)
	assert.InDelta(t, 0.6, result.F[2], 1e-12)
}
