package equilibrium

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// vanishedPhaseTol is the molar-amount threshold below which a trial phase
// is treated as absent. It keeps the normalization from dividing by a
// near-zero total while the global search wanders near the box boundary.
const vanishedPhaseTol = 1e-5

// betaMatrix reshapes the flat decision vector into rows × components,
// row-major: row k holds the split fractions routing each component into
// phase k+1 from the residual feed.
func betaMatrix(betaVec []float64, components, rows int) *mat.Dense {
	return mat.NewDense(rows, components, betaVec)
}

// molesFromBeta applies the residual-splitting change of variables. The
// first phase takes β of the feed outright, intermediate phases take β of
// whatever earlier phases left behind, and the last phase is the closure
// term, so per-component material balance holds for any β in [0,1].
func molesFromBeta(beta *mat.Dense, z []float64, molarBase float64) *mat.Dense {
	rows, nc := beta.Dims()
	phases := rows + 1
	n := mat.NewDense(phases, nc, nil)

	// taken[j] accumulates the moles of component j already assigned.
	taken := make([]float64, nc)
	for j := 0; j < nc; j++ {
		v := beta.At(0, j) * z[j] * molarBase
		n.Set(0, j, v)
		taken[j] = v
	}
	for k := 1; k < phases-1; k++ {
		for j := 0; j < nc; j++ {
			v := beta.At(k, j) * (z[j]*molarBase - taken[j])
			n.Set(k, j, v)
			taken[j] += v
		}
	}
	for j := 0; j < nc; j++ {
		n.Set(phases-1, j, z[j]*molarBase-taken[j])
	}
	return n
}

// normalizeToFractions converts molar amounts to per-phase molar fractions.
// Phases whose total moles fall below vanishedPhaseTol come back as all-zero
// rows rather than NaN.
func normalizeToFractions(n *mat.Dense, phases int) *mat.Dense {
	_, nc := n.Dims()
	x := mat.NewDense(phases, nc, nil)
	for i := 0; i < phases; i++ {
		total := floats.Sum(n.RawRowView(i))
		if total <= vanishedPhaseTol {
			continue
		}
		for j := 0; j < nc; j++ {
			x.Set(i, j, n.At(i, j)/total)
		}
	}
	return x
}

// phaseFractions reports each phase's share of the total feed.
func phaseFractions(n *mat.Dense, molarBase float64) []float64 {
	phases, _ := n.Dims()
	fractions := make([]float64, phases)
	for i := range fractions {
		fractions[i] = floats.Sum(n.RawRowView(i)) / molarBase
	}
	return fractions
}
