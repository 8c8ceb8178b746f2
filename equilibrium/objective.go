package equilibrium

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// fugacityMatrix asks the model for each phase's fugacities and stacks the
// answers into a phases × components matrix. Rows of all-zero composition
// (vanished phases) are passed to the model unmodified; whatever it returns
// is forwarded, since the paired molar amounts are zero anyway.
func fugacityMatrix(x *mat.Dense, phases int, model Model, p, t float64) *mat.Dense {
	_, nc := x.Dims()
	f := mat.NewDense(phases, nc, nil)
	for i := 0; i < phases; i++ {
		f.SetRow(i, model.Fugacity(p, t, x.RawRowView(i)))
	}
	return f
}

// reducedGibbsEnergy evaluates the objective for a candidate decision
// vector: Σ_ij n_ij · ln f_ij. Entries with zero moles contribute nothing,
// whatever the model reports for them. A non-positive fugacity paired with
// nonzero moles is a model contract violation and comes back as
// ErrNonpositiveFugacity instead of a silent NaN.
func reducedGibbsEnergy(betaVec []float64, components, phases int, model Model, p, t float64, z []float64, molarBase float64) (float64, error) {
	if len(betaVec) != components*(phases-1) {
		return 0, fmt.Errorf("%w: got %d values, want %d", ErrDimensionMismatch, len(betaVec), components*(phases-1))
	}

	beta := betaMatrix(betaVec, components, phases-1)
	n := molesFromBeta(beta, z, molarBase)
	x := normalizeToFractions(n, phases)
	f := fugacityMatrix(x, phases, model, p, t)

	var g float64
	for i := 0; i < phases; i++ {
		for j := 0; j < components; j++ {
			nij := n.At(i, j)
			if nij == 0 {
				continue
			}
			fij := f.At(i, j)
			if fij <= 0 {
				return 0, fmt.Errorf("%w: phase %d, component %d: f = %g", ErrNonpositiveFugacity, i, j, fij)
			}
			g += nij * math.Log(fij)
		}
	}
	return g, nil
}
