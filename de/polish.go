package de

import (
	"io"

	"github.com/curioloop/optimizer/lbfgsb"
	"github.com/curioloop/optimizer/numdiff"
)

// L-BFGS-B settings for the polish pass: modest memory, forward-difference
// gradients, and stopping factors matching the usual defaults for a
// refinement run.
const (
	polishCorrections   = 10
	polishMaxIterations = 1000
	polishEpsFactor     = 1e7
	polishProjGradTol   = 1e-5
)

// polish refines the best population member with a bound-constrained
// L-BFGS-B descent. The objective gradient is approximated by finite
// differences restricted to the box, so the evaluation never leaves the
// feasible domain.
func polish(objective func([]float64) float64, x0 []float64, bounds [][2]float64) ([]float64, float64, error) {
	n := len(x0)

	fd := numdiff.ApproxSpec{
		N: n, M: 1,
		Object: func(x, y []float64) { y[0] = objective(x) },
		Method: numdiff.Forward,
		Bounds: make([]numdiff.Bound, n),
	}
	lb := make([]lbfgsb.Bound, n)
	for j, b := range bounds {
		fd.Bounds[j] = numdiff.Bound{b[0], b[1]}
		lb[j] = lbfgsb.Bound{Lower: b[0], Upper: b[1]}
	}

	problem := lbfgsb.Problem{
		N: n, M: polishCorrections,
		Eval: func(x, g []float64) float64 {
			if err := fd.Diff(x, g); err != nil {
				for j := range g {
					g[j] = 0
				}
			}
			return objective(x)
		},
		Stop: lbfgsb.Termination{
			MaxIterations:     polishMaxIterations,
			EpsAccuracyFactor: polishEpsFactor,
			ProjGradTolerance: polishProjGradTol,
		},
		Bounds: lb,
	}

	opt, err := problem.New(&lbfgsb.Logger{Level: lbfgsb.LogNoop, Msg: io.Discard, Out: io.Discard})
	if err != nil {
		return nil, 0, err
	}
	res := opt.Fit(x0, opt.Init())
	return res.X, res.F, nil
}
