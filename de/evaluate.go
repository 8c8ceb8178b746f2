package de

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// evaluate fills energies[i] = objective(members[i]). With Workers beyond
// one the members are pulled off a shared atomic counter by a small pool
// of goroutines; each slot is written by exactly one worker, so no further
// synchronization is needed. The objective must then be safe for
// concurrent calls.
func (s *Solver) evaluate(objective func([]float64) float64, members [][]float64, energies []float64) {
	workers := s.cfg.Workers
	if workers < 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(members) {
		workers = len(members)
	}
	if workers <= 1 {
		for i, x := range members {
			energies[i] = objective(x)
		}
		return
	}

	var next atomic.Int64
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(next.Add(1)) - 1
				if i >= len(members) {
					return
				}
				energies[i] = objective(members[i])
			}
		}()
	}
	wg.Wait()
}
