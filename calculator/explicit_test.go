package calculator

import (
	"math"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"heat1d/model"
)

func TestBoundaryApplyIdempotent(t *testing.T) {
	b := Boundary{Low: 293.15, High: 263.15}
	field := []float64{1, 2, 3, 4, 5}
	b.Apply(field)
	once := append([]float64(nil), field...)
	b.Apply(field)
	assert.Equal(t, once, field)
	assert.Equal(t, []float64{293.15, 2, 3, 4, 263.15}, field)

	b.Apply(nil)
}

func TestExplicitUniformFieldIsSteady(t *testing.T) {
	w := model.ReferenceWindow()
	w.TempLow, w.TempHigh = 280.0, 280.0
	c, err := NewCalculator(w, model.ReferenceAnalysis(), Explicit, DefaultConfig())
	require.NoError(t, err)

	for c.State() != Completed {
		_, err = c.Step()
		require.NoError(t, err)
		for i, v := range c.Field() {
			require.Equal(t, 280.0, v, "node %d step %d", i, c.Summary().Steps)
		}
	}
}

func TestExplicitMaximumPrinciple(t *testing.T) {
	w := model.ReferenceWindow()
	c, err := NewCalculator(w, model.ReferenceAnalysis(), Explicit, DefaultConfig())
	require.NoError(t, err)
	require.LessOrEqual(t, c.fourier, 0.5)

	bound := math.Max(floats.Max(c.Field()), math.Max(w.TempLow, w.TempHigh))
	lower := math.Min(floats.Min(c.Field()), math.Min(w.TempLow, w.TempHigh))
	for c.State() != Completed {
		_, err = c.Step()
		require.NoError(t, err)
		field := c.Field()
		n := len(field)
		assert.Equal(t, w.TempLow, field[0])
		assert.Equal(t, w.TempHigh, field[n-1])
		assert.LessOrEqual(t, floats.Max(field[1:n-1]), bound+1e-12)
		assert.GreaterOrEqual(t, floats.Min(field[1:n-1]), lower-1e-12)
	}
}

func TestExplicitSingleStep(t *testing.T) {
	s := newExplicitStepper(0.25, Boundary{Low: 10, High: 0})
	field := []float64{10, 10, 10, 0}
	scratch := make([]float64, 4)
	copy(scratch, field)

	res := s.Advance(field, scratch)
	assert.True(t, res.Converged)
	assert.Equal(t, 0, res.Sweeps)
	// node 2: 10 + 0.25*(0 - 20 + 10)
	assert.Equal(t, []float64{10, 10, 7.5, 0}, field)
	assert.Equal(t, field, scratch)
}

func TestExplicitUnstableWarnsAndOscillates(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	w := model.ReferenceWindow()
	a := model.ReferenceAnalysis()
	a.TimeStep = 0.05
	a.EndTime = 3
	c, err := NewCalculator(w, a, Explicit, DefaultConfig())
	require.NoError(t, err)
	require.Greater(t, c.fourier, 0.5)

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == log.WarnLevel {
			warned = true
		}
	}
	assert.True(t, warned)

	_, err = c.Run()
	require.NoError(t, err)
	assert.Greater(t, floats.Max(c.Field()), w.TempLow)
	assert.Equal(t, w.TempHigh, c.Field()[a.Nodes-1])
}
