package calculator

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration is returned before any stepping when a material,
	// geometric or temporal parameter is out of range.
	ErrInvalidConfiguration = errors.New("calculator: invalid configuration")

	// ErrNonConvergence marks an implicit step whose residual stayed above the
	// tolerance after the sweep cap. It is advisory: the capped iterate is kept.
	ErrNonConvergence = errors.New("calculator: gauss-seidel did not converge")

	// ErrCompleted is returned when stepping a run that already reached its end time.
	ErrCompleted = errors.New("calculator: run already completed")

	ErrUnknownMethod = errors.New("calculator: unknown method")
)

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalidConfiguration}, args...)...)
}

// NonConvergence records one implicit step that hit the sweep cap.
type NonConvergence struct {
	Step     int
	Time     float64
	Sweeps   int
	Residual float64
}

func (e *NonConvergence) Error() string {
	return fmt.Sprintf("%s: step %d (t=%g) residual %g after %d sweeps",
		ErrNonConvergence, e.Step, e.Time, e.Residual, e.Sweeps)
}

func (e *NonConvergence) Unwrap() error {
	return ErrNonConvergence
}
