package de

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"gonum.org/v1/gonum/stat/distuv"
)

type mutationBase int

const (
	best1 mutationBase = iota
	rand1
	rand2
	best2
	randToBest1
	currentToBest1
)

type crossoverKind int

const (
	binomial crossoverKind = iota
	exponential
)

// partners[b] is how many distinct population members, beside the current
// one, the recipe b combines.
var partners = map[mutationBase]int{
	best1:          2,
	rand1:          3,
	rand2:          5,
	best2:          4,
	randToBest1:    3,
	currentToBest1: 2,
}

// resolveStrategy splits a strategy tag into its mutation recipe and
// crossover flavor.
func resolveStrategy(tag Strategy) (mutationBase, crossoverKind, error) {
	name := string(tag)
	var cross crossoverKind
	switch {
	case strings.HasSuffix(name, "bin"):
		cross = binomial
	case strings.HasSuffix(name, "exp"):
		cross = exponential
	default:
		return 0, 0, fmt.Errorf("de: unknown strategy %q", tag)
	}
	switch strings.TrimSuffix(strings.TrimSuffix(name, "bin"), "exp") {
	case "best1":
		return best1, cross, nil
	case "rand1":
		return rand1, cross, nil
	case "rand2":
		return rand2, cross, nil
	case "best2":
		return best2, cross, nil
	case "randtobest1":
		return randToBest1, cross, nil
	case "currenttobest1":
		return currentToBest1, cross, nil
	}
	return 0, 0, fmt.Errorf("de: unknown strategy %q", tag)
}

// pickDistinct samples k distinct population indices, none equal to
// exclude. Requires popSize > k, which minPopulation guarantees.
func pickDistinct(rng *rand.Rand, popSize, k, exclude int) []int {
	idx := make([]int, 0, k)
	for len(idx) < k {
		c := rng.IntN(popSize)
		if c == exclude {
			continue
		}
		taken := false
		for _, v := range idx {
			if v == c {
				taken = true
				break
			}
		}
		if !taken {
			idx = append(idx, c)
		}
	}
	return idx
}

// trial builds one trial vector for population member i: mutate per the
// strategy recipe, pull escaped entries back into the box, then cross the
// mutant with the parent. The result is written into out.
func (s *Solver) trial(rng *rand.Rand, pop [][]float64, i, best int, f float64, bounds [][2]float64, draw []distuv.Uniform, out []float64) {
	n := len(out)
	mutant := make([]float64, n)
	picks := pickDistinct(rng, len(pop), partners[s.base], i)

	b := pop[best]
	cur := pop[i]
	switch s.base {
	case best1:
		p0, p1 := pop[picks[0]], pop[picks[1]]
		for j := 0; j < n; j++ {
			mutant[j] = b[j] + f*(p0[j]-p1[j])
		}
	case rand1:
		p0, p1, p2 := pop[picks[0]], pop[picks[1]], pop[picks[2]]
		for j := 0; j < n; j++ {
			mutant[j] = p0[j] + f*(p1[j]-p2[j])
		}
	case rand2:
		p0, p1, p2, p3, p4 := pop[picks[0]], pop[picks[1]], pop[picks[2]], pop[picks[3]], pop[picks[4]]
		for j := 0; j < n; j++ {
			mutant[j] = p0[j] + f*(p1[j]+p2[j]-p3[j]-p4[j])
		}
	case best2:
		p0, p1, p2, p3 := pop[picks[0]], pop[picks[1]], pop[picks[2]], pop[picks[3]]
		for j := 0; j < n; j++ {
			mutant[j] = b[j] + f*(p0[j]+p1[j]-p2[j]-p3[j])
		}
	case randToBest1:
		p0, p1, p2 := pop[picks[0]], pop[picks[1]], pop[picks[2]]
		for j := 0; j < n; j++ {
			mutant[j] = p0[j] + f*(b[j]-p0[j]) + f*(p1[j]-p2[j])
		}
	case currentToBest1:
		p0, p1 := pop[picks[0]], pop[picks[1]]
		for j := 0; j < n; j++ {
			mutant[j] = cur[j] + f*(b[j]-cur[j]+p0[j]-p1[j])
		}
	}

	// Entries pushed outside the box are replaced by a fresh uniform draw
	// rather than clipped, which avoids piling probability mass onto the
	// bound itself.
	for j := 0; j < n; j++ {
		if mutant[j] < bounds[j][0] || mutant[j] > bounds[j][1] {
			mutant[j] = draw[j].Rand()
		}
	}

	copy(out, cur)
	switch s.cross {
	case binomial:
		// The fill index is always taken from the mutant, so the trial
		// can never equal its parent.
		fill := rng.IntN(n)
		for j := 0; j < n; j++ {
			if j == fill || rng.Float64() < s.cfg.Recombination {
				out[j] = mutant[j]
			}
		}
	case exponential:
		// Copy a contiguous (wrapping) run of mutant entries, starting
		// at a random position, whose length is geometrically
		// distributed with parameter CR.
		j := rng.IntN(n)
		for l := 0; l < n; l++ {
			out[j] = mutant[j]
			j = (j + 1) % n
			if rng.Float64() >= s.cfg.Recombination {
				break
			}
		}
	}
}
