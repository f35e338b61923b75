package calculator

// explicitStepper FTCS 显式格式
//
//	T'[i] = T[i] + r * (T[i+1] - 2T[i] + T[i-1]),  r = alpha*dt/dx^2
//
// Only stable for r <= 0.5. Larger r is not rejected: the field develops
// growing oscillations, and NewCalculator logs a warning.
type explicitStepper struct {
	r        float64
	boundary Boundary
}

func newExplicitStepper(r float64, boundary Boundary) *explicitStepper {
	return &explicitStepper{r: r, boundary: boundary}
}

func (s *explicitStepper) Method() Method { return Explicit }

// Advance reads only field while writing scratch, then copies the interior back.
func (s *explicitStepper) Advance(field, scratch []float64) StepResult {
	n := len(field)
	for i := 1; i < n-1; i++ {
		scratch[i] = field[i] + s.r*(field[i+1]-2*field[i]+field[i-1])
	}
	copy(field[1:n-1], scratch[1:n-1])

	s.boundary.Apply(field)
	s.boundary.Apply(scratch)
	return StepResult{Converged: true}
}
