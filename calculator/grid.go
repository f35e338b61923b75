package calculator

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"heat1d/model"
)

// MaxSteps 单次计算允许的最大步数
const MaxSteps = math.MaxInt32

// Grid 由平板厚度和节点数得到空间步长，由终了时刻和时间步长得到步数
type Grid struct {
	Nodes       int
	Dx          float64
	Dt          float64
	Steps       int
	OutputEvery int
	Positions   []float64 // 节点坐标 i*Dx
}

// NewGrid validates the descriptor and the analysis settings and derives the
// spatial and temporal discretisation. Steps is floor(EndTime/TimeStep).
func NewGrid(w model.Window, a model.Analysis) (Grid, error) {
	if err := validateWindow(w); err != nil {
		return Grid{}, err
	}
	switch {
	case a.Nodes < 3:
		return Grid{}, invalid("nodes = %d, need at least 3", a.Nodes)
	case !(a.TimeStep > 0) || math.IsInf(a.TimeStep, 0):
		return Grid{}, invalid("time step = %g, must be positive", a.TimeStep)
	case !(a.EndTime > 0) || math.IsInf(a.EndTime, 0):
		return Grid{}, invalid("end time = %g, must be positive", a.EndTime)
	case a.OutputEvery < 0:
		return Grid{}, invalid("output interval = %d, must not be negative", a.OutputEvery)
	}
	steps := math.Floor(a.EndTime / a.TimeStep)
	if steps > MaxSteps {
		return Grid{}, invalid("step count = %g, at most %d", steps, MaxSteps)
	}

	g := Grid{
		Nodes:       a.Nodes,
		Dx:          w.Thickness / float64(a.Nodes-1),
		Dt:          a.TimeStep,
		Steps:       int(steps),
		OutputEvery: a.OutputEvery,
		Positions:   make([]float64, a.Nodes),
	}
	if g.OutputEvery == 0 {
		g.OutputEvery = 1
	}
	if !(g.Dx > 0) {
		return Grid{}, invalid("dx = %g", g.Dx)
	}
	// i*Dx
	floats.Span(g.Positions, 0, w.Thickness)
	return g, nil
}

// Fourier returns r = alpha*dt/dx^2. The explicit scheme is stable only for r <= 0.5.
func (g Grid) Fourier(alpha float64) float64 {
	return alpha * g.Dt / (g.Dx * g.Dx)
}

// Time of step n, computed as n*dt rather than accumulated.
func (g Grid) Time(step int) float64 {
	return float64(step) * g.Dt
}

func validateWindow(w model.Window) error {
	check := []struct {
		name  string
		value float64
	}{
		{"density", w.Density},
		{"specific heat", w.SpecificHeat},
		{"conductivity", w.Conductivity},
		{"thickness", w.Thickness},
	}
	for _, c := range check {
		if !(c.value > 0) || math.IsInf(c.value, 0) {
			return invalid("%s = %g, must be positive", c.name, c.value)
		}
	}
	if math.IsNaN(w.TempLow) || math.IsInf(w.TempLow, 0) {
		return invalid("boundary temperature low = %g", w.TempLow)
	}
	if math.IsNaN(w.TempHigh) || math.IsInf(w.TempHigh, 0) {
		return invalid("boundary temperature high = %g", w.TempHigh)
	}
	return nil
}
