package equilibrium

import "fmt"

// settings collects the solve configuration. All knobs mirror the search
// hyperparameters of the default differential-evolution minimizer; a custom
// Minimizer supplied via WithMinimizer makes most of them moot.
type settings struct {
	trialPhases   int
	compare       bool
	molarBase     float64
	strategy      string
	recombination float64
	mutation      float64
	dither        []float64 // nil unless dithering is requested
	tol           float64
	seed          uint64
	workers       int
	monitor       bool
	polish        bool
	minimizer     Minimizer // nil means build the default de solver
}

func defaultSettings() settings {
	return settings{
		trialPhases:   3,
		compare:       false,
		molarBase:     1.0,
		strategy:      "best1bin",
		recombination: 0.3,
		mutation:      0.6,
		tol:           1e-5,
		workers:       1,
		polish:        true,
	}
}

// validate fails fast, before any optimization work is started.
func (s *settings) validate() error {
	if s.trialPhases <= 1 {
		return fmt.Errorf("%w: need at least two trial phases, got %d", ErrTrialPhaseCount, s.trialPhases)
	}
	if s.trialPhases > 4 {
		return fmt.Errorf("%w: the limit is four trial phases, got %d", ErrTrialPhaseCount, s.trialPhases)
	}
	if s.recombination <= 0 || s.recombination > 1 {
		return fmt.Errorf("%w: must lie in (0, 1], got %g", ErrRecombination, s.recombination)
	}
	if s.dither != nil {
		lo, hi := s.dither[0], s.dither[1]
		if lo < 0 || lo > 2 || hi < 0 || hi > 2 {
			return fmt.Errorf("%w: dithering endpoints must lie in [0, 2], got (%g, %g)", ErrMutation, lo, hi)
		}
		if lo == hi {
			return fmt.Errorf("%w: dithering endpoints must differ, got (%g, %g)", ErrMutation, lo, hi)
		}
	} else if s.mutation <= 0 || s.mutation >= 2 {
		return fmt.Errorf("%w: must lie in (0, 2), got %g", ErrMutation, s.mutation)
	}
	if s.tol < 0 {
		return fmt.Errorf("%w: must be nonnegative, got %g", ErrTolerance, s.tol)
	}
	return nil
}

// Option customizes a CalculateEquilibrium call. Validation happens inside
// CalculateEquilibrium, not in the option constructors, so that every
// rejected configuration surfaces as an error rather than a panic.
type Option func(*settings)

// WithTrialPhases sets the number of trial phases (2 to 4, default 3).
func WithTrialPhases(n int) Option {
	return func(s *settings) { s.trialPhases = n }
}

// WithCompare enables comparing equilibria from 2 up to the trial-phase
// count, keeping the last physically plausible one.
func WithCompare(compare bool) Option {
	return func(s *settings) { s.compare = compare }
}

// WithMolarBase sets the molar feed rate F that scales all molar amounts
// (default 1.0).
func WithMolarBase(f float64) Option {
	return func(s *settings) { s.molarBase = f }
}

// WithStrategy selects the differential-evolution strategy tag
// (default "best1bin").
func WithStrategy(strategy string) Option {
	return func(s *settings) { s.strategy = strategy }
}

// WithRecombination sets the crossover probability CR, in (0, 1]
// (default 0.3).
func WithRecombination(cr float64) Option {
	return func(s *settings) { s.recombination = cr }
}

// WithMutation sets a fixed differential weight, in (0, 2) (default 0.6).
// Overrides any previously requested dithering.
func WithMutation(f float64) Option {
	return func(s *settings) {
		s.mutation = f
		s.dither = nil
	}
}

// WithMutationDither draws the differential weight uniformly from
// [lo, hi) once per generation. Both endpoints must lie in [0, 2] and
// differ from each other.
func WithMutationDither(lo, hi float64) Option {
	return func(s *settings) { s.dither = []float64{lo, hi} }
}

// WithTolerance sets the relative convergence tolerance of the population
// energies (default 1e-5).
func WithTolerance(tol float64) Option {
	return func(s *settings) { s.tol = tol }
}

// WithSeed makes every optimization run reproducible. The seed is handed
// unchanged to each independent trial-phase-count run. Zero (the default)
// seeds from the clock.
func WithSeed(seed uint64) Option {
	return func(s *settings) { s.seed = seed }
}

// WithWorkers sets how many goroutines evaluate the population: 1 is
// serial (default), -1 uses all available cores.
func WithWorkers(workers int) Option {
	return func(s *settings) { s.workers = workers }
}

// WithMonitor prints the best objective value after each generation.
func WithMonitor(monitor bool) Option {
	return func(s *settings) { s.monitor = monitor }
}

// WithPolish toggles the bounded L-BFGS-B refinement of the best member
// after the global search (default on).
func WithPolish(polish bool) Option {
	return func(s *settings) { s.polish = polish }
}

// WithMinimizer replaces the default differential-evolution engine. The
// search hyperparameter options have no effect on a custom minimizer, but
// they are still validated.
func WithMinimizer(m Minimizer) Option {
	return func(s *settings) { s.minimizer = m }
}
