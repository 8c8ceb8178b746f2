package equilibrium

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Tolerances for deciding that two trial phases are really the same phase.
const (
	duplicatePhaseRelTol = 1e-2
	duplicatePhaseAbsTol = 1e-8
)

// allClose reports whether a and b agree elementwise within
// atol + rtol·|b|, the numpy.allclose criterion. Not symmetric in its
// arguments, like the original.
func allClose(a, b []float64, rtol, atol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > atol+rtol*math.Abs(b[i]) {
			return false
		}
	}
	return true
}

// isNonphysicalSplit judges the solution for one trial-phase count. A split
// is rejected when two distinct phases carry approximately equal
// compositions (the optimizer invented a spurious phase), or, failing that,
// when its energy is worse than the previously accepted minimum: adding a
// phase can only lower the free energy, so an increase signals a
// convergence failure rather than a real extra phase.
func isNonphysicalSplit(x *mat.Dense, previousEnergy, currentEnergy float64) bool {
	phases, _ := x.Dims()
	for fixed := 0; fixed < phases; fixed++ {
		for probe := 0; probe < phases; probe++ {
			if probe == fixed {
				continue
			}
			if allClose(x.RawRowView(fixed), x.RawRowView(probe), duplicatePhaseRelTol, duplicatePhaseAbsTol) {
				return true
			}
		}
	}
	return currentEnergy > previousEnergy
}
