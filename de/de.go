// Package de implements the differential evolution algorithm of Storn &
// Price for global minimization over a boxed domain, with the strategy
// set, dithered mutation, convergence rule and optional L-BFGS-B polish
// of its SciPy counterpart. It is the default global-search collaborator
// of package equilibrium, but has no dependency on it and can minimize
// any black-box objective.
package de

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Strategy tags a differential-evolution variant: the mutation recipe
// (best1, rand1, ...) combined with the crossover flavor (bin for
// binomial, exp for exponential).
type Strategy string

const (
	Best1Bin          Strategy = "best1bin"
	Best1Exp          Strategy = "best1exp"
	Rand1Bin          Strategy = "rand1bin"
	Rand1Exp          Strategy = "rand1exp"
	Rand2Bin          Strategy = "rand2bin"
	Rand2Exp          Strategy = "rand2exp"
	Best2Bin          Strategy = "best2bin"
	Best2Exp          Strategy = "best2exp"
	RandToBest1Bin    Strategy = "randtobest1bin"
	RandToBest1Exp    Strategy = "randtobest1exp"
	CurrentToBest1Bin Strategy = "currenttobest1bin"
	CurrentToBest1Exp Strategy = "currenttobest1exp"
)

// Config collects the search hyperparameters.
type Config struct {
	// Strategy selects the mutation/crossover variant. Default Best1Bin.
	Strategy Strategy

	// MaxGenerations bounds the generation loop. Default 1000.
	MaxGenerations int

	// Recombination is the crossover probability CR, in (0, 1].
	// Default 0.3.
	Recombination float64

	// Mutation is the differential weight F, in (0, 2), used when Dither
	// is nil. Default 0.6.
	Mutation float64

	// Dither, when non-nil, holds two distinct endpoints in [0, 2]; F is
	// drawn uniformly from the interval once per generation.
	Dither []float64

	// Tol and AbsTol stop the search when
	// std(energies) <= AbsTol + Tol·|mean(energies)|. Default Tol 1e-5,
	// AbsTol 0.
	Tol    float64
	AbsTol float64

	// Seed makes the run reproducible. Zero seeds from the clock.
	Seed uint64

	// Workers is the number of goroutines evaluating the population:
	// 0 or 1 serial, -1 all available cores.
	Workers int

	// Monitor prints the best energy after every generation.
	Monitor bool

	// Polish refines the best member with bounded L-BFGS-B after the
	// population converges.
	Polish bool
}

// Solver is a reusable differential-evolution minimizer. Every Minimize
// call is an independent run re-seeded from the configuration, so a
// seeded Solver yields the same answer for the same problem every time.
type Solver struct {
	cfg   Config
	base  mutationBase
	cross crossoverKind
}

// The rand2/best2 recipes need five distinct partners beside the current
// member, so the population can never be smaller than this.
const minPopulation = 6

// New validates the configuration and returns a Solver.
func New(cfg Config) (*Solver, error) {
	if cfg.Strategy == "" {
		cfg.Strategy = Best1Bin
	}
	base, cross, err := resolveStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}
	if cfg.MaxGenerations == 0 {
		cfg.MaxGenerations = 1000
	}
	if cfg.Recombination == 0 {
		cfg.Recombination = 0.3
	}
	if cfg.Mutation == 0 && cfg.Dither == nil {
		cfg.Mutation = 0.6
	}
	if cfg.Tol == 0 {
		cfg.Tol = 1e-5
	}
	switch {
	case cfg.MaxGenerations < 0:
		return nil, errors.New("de: max generations must be positive")
	case cfg.Recombination <= 0 || cfg.Recombination > 1:
		return nil, fmt.Errorf("de: recombination must lie in (0, 1], got %g", cfg.Recombination)
	case cfg.Tol < 0 || cfg.AbsTol < 0:
		return nil, errors.New("de: tolerances must be nonnegative")
	}
	if cfg.Dither != nil {
		if len(cfg.Dither) != 2 {
			return nil, errors.New("de: dither takes exactly two endpoints")
		}
		lo, hi := cfg.Dither[0], cfg.Dither[1]
		if lo < 0 || lo > 2 || hi < 0 || hi > 2 {
			return nil, fmt.Errorf("de: dither endpoints must lie in [0, 2], got (%g, %g)", lo, hi)
		}
		if lo == hi {
			return nil, fmt.Errorf("de: dither endpoints must differ, got (%g, %g)", lo, hi)
		}
	} else if cfg.Mutation <= 0 || cfg.Mutation >= 2 {
		return nil, fmt.Errorf("de: mutation must lie in (0, 2), got %g", cfg.Mutation)
	}
	return &Solver{cfg: cfg, base: base, cross: cross}, nil
}

// Minimize runs one differential-evolution search of objective over the
// boxed domain. popSize below the strategy minimum is raised silently.
func (s *Solver) Minimize(objective func(x []float64) float64, bounds [][2]float64, popSize int) ([]float64, float64, error) {
	n := len(bounds)
	if n == 0 {
		return nil, 0, errors.New("de: empty search domain")
	}
	for j, b := range bounds {
		if !(b[0] <= b[1]) {
			return nil, 0, fmt.Errorf("de: bound %d is infeasible: [%g, %g]", j, b[0], b[1])
		}
	}
	if popSize < minPopulation {
		popSize = minPopulation
	}

	seed := s.cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	rng := rand.New(src)

	// Per-dimension uniform draws share the seeded source, so the whole
	// run consumes a single deterministic random stream.
	draw := make([]distuv.Uniform, n)
	for j, b := range bounds {
		draw[j] = distuv.Uniform{Min: b[0], Max: b[1], Src: src}
	}

	pop := make([][]float64, popSize)
	energies := make([]float64, popSize)
	for i := range pop {
		x := make([]float64, n)
		for j := range x {
			x[j] = draw[j].Rand()
		}
		pop[i] = x
	}
	s.evaluate(objective, pop, energies)
	best := floats.MinIdx(energies)

	trials := make([][]float64, popSize)
	trialEnergies := make([]float64, popSize)
	for i := range trials {
		trials[i] = make([]float64, n)
	}

	for gen := 1; gen <= s.cfg.MaxGenerations; gen++ {
		f := s.weight(rng)

		// Trial vectors are produced sequentially from the single random
		// stream; only their evaluation fans out. Selection is deferred
		// to the end of the generation, so results do not depend on the
		// worker count.
		for i := range pop {
			s.trial(rng, pop, i, best, f, bounds, draw, trials[i])
		}
		s.evaluate(objective, trials, trialEnergies)
		for i := range pop {
			if trialEnergies[i] < energies[i] {
				pop[i], trials[i] = trials[i], pop[i]
				energies[i] = trialEnergies[i]
			}
		}
		best = floats.MinIdx(energies)

		if s.cfg.Monitor {
			fmt.Printf("differential evolution step %d: f(x)= %g\n", gen, energies[best])
		}
		if converged(energies, s.cfg.Tol, s.cfg.AbsTol) {
			break
		}
	}

	x := slices.Clone(pop[best])
	fun := energies[best]

	if s.cfg.Polish {
		if px, pf, err := polish(objective, x, bounds); err == nil && pf < fun {
			x, fun = px, pf
		}
	}
	return x, fun, nil
}

// weight returns the differential weight for one generation, drawing it
// from the dithering range when one is configured.
func (s *Solver) weight(rng *rand.Rand) float64 {
	if s.cfg.Dither == nil {
		return s.cfg.Mutation
	}
	lo, hi := s.cfg.Dither[0], s.cfg.Dither[1]
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo + (hi-lo)*rng.Float64()
}

// converged applies the population-statistics stopping rule
// std(E) <= atol + tol·|mean(E)|. Populations holding Inf or NaN
// energies never satisfy it.
func converged(energies []float64, tol, atol float64) bool {
	mean := stat.Mean(energies, nil)
	if math.IsInf(mean, 0) || math.IsNaN(mean) {
		return false
	}
	return stat.StdDev(energies, nil) <= atol+tol*math.Abs(mean)
}
