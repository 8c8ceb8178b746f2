package equilibrium

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestIsNonphysicalSplitDuplicatePhases(t *testing.T) {
	// Rows differ by well under the 1% relative tolerance.
	x := mat.NewDense(2, 2, []float64{
		0.300, 0.700,
		0.301, 0.699,
	})
	assert.True(t, isNonphysicalSplit(x, math.Inf(1), -1.0),
		"near-identical phases must be flagged even when the energy improved")
}

func TestIsNonphysicalSplitZeroRowsAreDuplicates(t *testing.T) {
	// Two vanished trial phases normalize to identical all-zero rows.
	x := mat.NewDense(3, 2, []float64{
		0, 0,
		1, 0,
		0, 0,
	})
	assert.True(t, isNonphysicalSplit(x, -1.0, -2.0))
}

func TestIsNonphysicalSplitEnergyRegression(t *testing.T) {
	x := mat.NewDense(2, 2, []float64{
		0.1, 0.9,
		0.8, 0.2,
	})
	assert.True(t, isNonphysicalSplit(x, -2.0, -1.5),
		"adding a phase must not raise the minimum free energy")
	assert.False(t, isNonphysicalSplit(x, -1.5, -2.0))
	assert.False(t, isNonphysicalSplit(x, -2.0, -2.0),
		"equal energy is tolerated")
}

func TestIsNonphysicalSplitAcceptsFirstComparisonPoint(t *testing.T) {
	x := mat.NewDense(2, 2, []float64{
		0.1, 0.9,
		0.8, 0.2,
	})
	assert.False(t, isNonphysicalSplit(x, math.Inf(1), 123.0),
		"any finite energy beats the +Inf accumulator seed")
}

func TestAllClose(t *testing.T) {
	assert.True(t, allClose([]float64{1.0, 2.0}, []float64{1.005, 2.01}, 1e-2, 1e-8))
	assert.False(t, allClose([]float64{1.0, 2.0}, []float64{1.05, 2.0}, 1e-2, 1e-8))
	assert.True(t, allClose([]float64{0, 0}, []float64{0, 0}, 1e-2, 1e-8))
	assert.False(t, allClose([]float64{1}, []float64{1, 2}, 1e-2, 1e-8))
}
