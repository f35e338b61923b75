package calculator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"heat1d/model"
)

// directSolve solves the backward Euler step as a dense linear system.
func directSolve(t *testing.T, r float64, prev []float64, low, high float64) []float64 {
	n := len(prev)
	m := n - 2
	a := mat.NewDense(m, m, nil)
	b := mat.NewVecDense(m, nil)
	for k := 0; k < m; k++ {
		rhs := prev[k+1]
		a.Set(k, k, 1+2*r)
		if k > 0 {
			a.Set(k, k-1, -r)
		} else {
			rhs += r * low
		}
		if k < m-1 {
			a.Set(k, k+1, -r)
		} else {
			rhs += r * high
		}
		b.SetVec(k, rhs)
	}
	var x mat.VecDense
	require.NoError(t, x.SolveVec(a, b))
	out := make([]float64, n)
	out[0], out[n-1] = low, high
	for k := 0; k < m; k++ {
		out[k+1] = x.AtVec(k)
	}
	return out
}

func TestImplicitConvergesForReference(t *testing.T) {
	w := model.ReferenceWindow()
	c, err := NewCalculator(w, model.ReferenceAnalysis(), Implicit, DefaultConfig())
	require.NoError(t, err)

	for c.State() != Completed {
		res, err := c.Step()
		require.NoError(t, err)
		require.True(t, res.Converged, "step %d residual %g", res.Step, res.Residual)
		assert.Less(t, res.Sweeps, 100)
		assert.LessOrEqual(t, res.Residual, 1e-8)
		require.Len(t, res.Residuals, res.Sweeps)
		// non-increasing after the first sweep
		for k := 2; k < len(res.Residuals); k++ {
			assert.LessOrEqual(t, res.Residuals[k], res.Residuals[k-1], "step %d sweep %d", res.Step, k+1)
		}
		field := c.Field()
		assert.Equal(t, w.TempLow, field[0])
		assert.Equal(t, w.TempHigh, field[len(field)-1])
	}
	s := c.Summary()
	assert.Empty(t, s.NonConverged)
	assert.Equal(t, 500, s.Steps)
	assert.Greater(t, s.TotalSweeps, s.Steps)
	assert.Less(t, s.MaxSweeps, 100)
}

func TestImplicitMatchesDirectSolve(t *testing.T) {
	w := model.ReferenceWindow()
	c, err := NewCalculator(w, model.ReferenceAnalysis(), Implicit, DefaultConfig())
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		prev := c.Field()
		_, err = c.Step()
		require.NoError(t, err)
		want := directSolve(t, c.fourier, prev, w.TempLow, w.TempHigh)
		got := c.Field()
		for k := range want {
			assert.InDelta(t, want[k], got[k], 1e-8, "step %d node %d", i+1, k)
		}
		assert.Less(t, SystemResidual(c.fourier, prev, got), 1e-7)
	}
}

func TestImplicitNonConvergenceIsAdvisory(t *testing.T) {
	w := model.ReferenceWindow()
	a := model.ReferenceAnalysis()
	a.EndTime = 0.01
	cfg := DefaultConfig()
	cfg.MaxSweeps = 1
	cfg.Tolerance = 0

	c, err := NewCalculator(w, a, Implicit, cfg)
	require.NoError(t, err)
	res, err := c.Step()
	require.NoError(t, err)
	assert.False(t, res.Converged)
	assert.Equal(t, 1, res.Sweeps)
	assert.Greater(t, res.Residual, 0.0)

	s, err := c.Run()
	require.NoError(t, err)
	assert.Equal(t, Completed, c.State())
	require.NotEmpty(t, s.NonConverged)
	nc := s.NonConverged[0]
	assert.Equal(t, 1, nc.Step)
	assert.True(t, errors.Is(nc, ErrNonConvergence))
	assert.Contains(t, nc.Error(), "step 1")

	field := c.Field()
	assert.Equal(t, w.TempLow, field[0])
	assert.Equal(t, w.TempHigh, field[len(field)-1])
}

func TestImplicitUniformFieldStaysUniform(t *testing.T) {
	w := model.ReferenceWindow()
	w.TempLow, w.TempHigh = 280.0, 280.0
	c, err := NewCalculator(w, model.ReferenceAnalysis(), Implicit, DefaultConfig())
	require.NoError(t, err)
	_, err = c.Run()
	require.NoError(t, err)
	for _, v := range c.Field() {
		assert.InDelta(t, 280.0, v, 1e-9)
	}
}

func TestSystemResidual(t *testing.T) {
	prev := []float64{10, 5, 5, 5, 0}
	r := 0.3
	exact := directSolve(t, r, prev, 10, 0)
	assert.InDelta(t, 0, SystemResidual(r, prev, exact), 1e-12)

	// a copy of prev is not a solution
	assert.Greater(t, SystemResidual(r, prev, prev), 1.0)

	assert.Equal(t, 0.0, SystemResidual(r, []float64{1, 2}, []float64{1, 2}))
}
