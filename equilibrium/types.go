package equilibrium

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// Model is the thermodynamic collaborator. It is the sole source of domain
// physics: the solver only ever asks it for fugacities of a single phase.
type Model interface {
	// NumberOfComponents reports how many components the model describes.
	NumberOfComponents() int

	// Fugacity returns one fugacity per component for a phase with the
	// given composition at pressure p [Pa] and temperature t [K]. Values
	// must be strictly positive for physically valid, nonzero
	// compositions; the solver takes their logarithm.
	Fugacity(p, t float64, composition []float64) []float64
}

// Minimizer is the global-optimization collaborator: a black-box minimize
// operation over a boxed real vector domain. bounds holds one {lower,
// upper} interval per decision variable. popSize is a sizing hint for
// population-based searches; non-population methods may ignore it.
type Minimizer interface {
	Minimize(objective func(x []float64) float64, bounds [][2]float64, popSize int) (x []float64, fun float64, err error)
}

// Status tags the outcome of an equilibrium calculation.
type Status string

const (
	StatusSucceed Status = "succeed"
	StatusFailure Status = "failure"
)

// Result holds the outcome of an equilibrium calculation. It is created
// once at the end of a solve and never mutated afterwards.
type Result struct {
	// F holds the phase molar fractions, one per accepted phase. Nil on
	// failure.
	F []float64

	// X holds the component molar fractions per phase (phases × components).
	// Nil on failure.
	X *mat.Dense

	// ReducedGibbsEnergy is the minimized objective value. +Inf on failure.
	ReducedGibbsEnergy float64

	// NumberOfPhases is the accepted number of phases (>= 1).
	NumberOfPhases int

	// Status reports whether the calculation found a physical split.
	Status Status
}

// Sentinel errors for invalid configuration and contract violations.
var (
	ErrTrialPhaseCount     = errors.New("equilibrium: invalid number of trial phases")
	ErrRecombination       = errors.New("equilibrium: invalid recombination")
	ErrMutation            = errors.New("equilibrium: invalid mutation")
	ErrTolerance           = errors.New("equilibrium: invalid tolerance")
	ErrDimensionMismatch   = errors.New("equilibrium: decision vector length does not match components and phases")
	ErrNonpositiveFugacity = errors.New("equilibrium: model returned non-positive fugacity")
)
