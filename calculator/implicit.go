package calculator

import (
	"math"

	log "github.com/sirupsen/logrus"
)

// implicitStepper 隐式格式，每个时间步用 Gauss-Seidel 迭代求解
//
//	T'[i] = (T[i] + r * (T'[i+1] + T'[i-1])) / (1 + 2r)
//
// scratch is the iterate. It is not reset between time steps, so each step
// starts from the previous solution. The sweep runs in ascending index order
// and reads T'[i-1] already updated in the same sweep; it must stay sequential.
type implicitStepper struct {
	r         float64
	boundary  Boundary
	maxSweeps int
	tolerance float64
	diagnose  bool
}

func newImplicitStepper(r float64, boundary Boundary, maxSweeps int, tolerance float64) *implicitStepper {
	return &implicitStepper{
		r:         r,
		boundary:  boundary,
		maxSweeps: maxSweeps,
		tolerance: tolerance,
		diagnose:  log.IsLevelEnabled(log.DebugLevel),
	}
}

func (s *implicitStepper) Method() Method { return Implicit }

// Advance holds field fixed as the right hand side for every sweep and stops
// once the summed absolute change of a sweep is within tolerance. If the cap is
// reached the last iterate is accepted and Converged is false.
func (s *implicitStepper) Advance(field, scratch []float64) StepResult {
	var (
		n     = len(field)
		denom = 1 + 2*s.r
		res   = StepResult{Residuals: make([]float64, 0, 8)}
	)
	for sweep := 1; sweep <= s.maxSweeps; sweep++ {
		resd := 0.0
		for i := 1; i < n-1; i++ {
			tp := scratch[i]
			scratch[i] = (field[i] + s.r*(scratch[i+1]+scratch[i-1])) / denom
			resd += math.Abs(scratch[i] - tp)
		}
		res.Sweeps = sweep
		res.Residual = resd
		res.Residuals = append(res.Residuals, resd)
		if resd <= s.tolerance {
			res.Converged = true
			break
		}
	}
	if s.diagnose {
		res.SystemResidual = SystemResidual(s.r, field, scratch)
	}

	copy(field[1:n-1], scratch[1:n-1])
	s.boundary.Apply(field)
	s.boundary.Apply(scratch)
	return res
}
