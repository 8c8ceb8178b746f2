package equilibrium

import (
	"errors"
	"fmt"
	"math"

	"github.com/thermolib/gibbs/de"
)

// Population sizing heuristic for the differential-evolution search:
// generous per decision variable, capped for tractability.
const (
	populationPerVariable = 15
	populationSizeLimit   = 100
)

func populationSize(decisionVariables int) int {
	size := populationPerVariable * decisionVariables
	if size > populationSizeLimit {
		size = populationSizeLimit
	}
	return size
}

// CalculateEquilibrium computes the thermodynamic equilibrium of the mixture
// described by model at pressure p [Pa], temperature t [K] and overall
// composition z (one fraction per component, summing to 1 — the caller's
// responsibility).
//
// With the defaults, a single global search over three trial phases is run
// and its best split accepted. WithCompare(true) instead walks the
// trial-phase counts 2..N in ascending order and keeps the last count whose
// solution passes the plausibility check; if even the 2-phase split is
// judged nonphysical the Result carries StatusFailure with one phase and no
// compositions, and the returned error is still nil — non-convergence is an
// outcome, not an exception.
//
// Note the deliberate asymmetry inherited from the original formulation:
// the fixed-count branch (trial phases == 2, or comparison disabled)
// accepts the optimizer's best split verbatim, without the duplicate-phase
// check applied in comparison mode.
func CalculateEquilibrium(model Model, p, t float64, z []float64, opts ...Option) (*Result, error) {
	cfg := defaultSettings()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	minimizer := cfg.minimizer
	if minimizer == nil {
		m, err := de.New(de.Config{
			Strategy:      de.Strategy(cfg.strategy),
			Recombination: cfg.recombination,
			Mutation:      cfg.mutation,
			Dither:        cfg.dither,
			Tol:           cfg.tol,
			Seed:          cfg.seed,
			Workers:       cfg.workers,
			Monitor:       cfg.monitor,
			Polish:        cfg.polish,
		})
		if err != nil {
			return nil, fmt.Errorf("equilibrium: %w", err)
		}
		minimizer = m
	}

	nc := model.NumberOfComponents()

	// One independent, stateless global search for a given trial-phase
	// count. The seed travels inside the minimizer configuration, so each
	// run is individually reproducible.
	search := func(trialPhases int) (betaVec []float64, energy float64, err error) {
		n := nc * (trialPhases - 1)
		bounds := make([][2]float64, n)
		for i := range bounds {
			bounds[i] = [2]float64{0, 1}
		}
		objective := func(candidate []float64) float64 {
			g, err := reducedGibbsEnergy(candidate, nc, trialPhases, model, p, t, z, cfg.molarBase)
			if err != nil {
				if errors.Is(err, ErrDimensionMismatch) {
					// A mis-sized vector here is a wiring defect between
					// solver and optimizer, not a search outcome.
					panic(err)
				}
				// Contract-violating model output: make the candidate
				// maximally unattractive and keep searching.
				return math.Inf(1)
			}
			return g
		}
		return minimizer.Minimize(objective, bounds, populationSize(n))
	}

	var (
		betaVec []float64
		energy  float64
		phases  = cfg.trialPhases
	)

	if cfg.trialPhases == 2 || !cfg.compare {
		var err error
		betaVec, energy, err = search(cfg.trialPhases)
		if err != nil {
			return nil, fmt.Errorf("equilibrium: global search failed: %w", err)
		}
	} else {
		// The only state carried across trial-phase counts is the last
		// accepted solution and its energy, threaded sequentially.
		previousEnergy := math.Inf(1)
		for count := 2; count <= cfg.trialPhases; count++ {
			trialVec, trialEnergy, err := search(count)
			if err != nil {
				return nil, fmt.Errorf("equilibrium: global search with %d trial phases failed: %w", count, err)
			}

			trialMoles := molesFromBeta(betaMatrix(trialVec, nc, count-1), z, cfg.molarBase)
			trialFractions := normalizeToFractions(trialMoles, count)

			if isNonphysicalSplit(trialFractions, previousEnergy, trialEnergy) {
				if math.IsInf(previousEnergy, 1) {
					// Even the minimal two-phase split is nonphysical:
					// there is nothing to fall back to below two phases.
					return &Result{
						ReducedGibbsEnergy: previousEnergy,
						NumberOfPhases:     1,
						Status:             StatusFailure,
					}, nil
				}
				// Keep the previously accepted count, drop this one.
				break
			}

			betaVec = trialVec
			energy = trialEnergy
			phases = count
			previousEnergy = trialEnergy
		}
	}

	moles := molesFromBeta(betaMatrix(betaVec, nc, phases-1), z, cfg.molarBase)
	return &Result{
		F:                  phaseFractions(moles, cfg.molarBase),
		X:                  normalizeToFractions(moles, phases),
		ReducedGibbsEnergy: energy,
		NumberOfPhases:     phases,
		Status:             StatusSucceed,
	}, nil
}
