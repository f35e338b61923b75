package calculator

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heat1d/model"
)

func TestNewGrid(t *testing.T) {
	g, err := NewGrid(model.ReferenceWindow(), model.ReferenceAnalysis())
	require.NoError(t, err)
	assert.Equal(t, 16, g.Nodes)
	assert.InDelta(t, 2e-4, g.Dx, 1e-18)
	assert.Equal(t, 500, g.Steps)
	assert.Equal(t, 1, g.OutputEvery)
	require.Len(t, g.Positions, 16)
	assert.Equal(t, 0.0, g.Positions[0])
	assert.InDelta(t, 7*2e-4, g.Positions[7], 1e-15)
	assert.InDelta(t, 3e-3, g.Positions[15], 1e-15)
	assert.InDelta(t, 0.5, g.Time(500), 1e-12)

	// alpha = 1.1/(2200*840), r = alpha*1e-3/(2e-4)^2
	alpha := model.ReferenceWindow().Diffusivity()
	assert.InDelta(t, 5.952380952e-7, alpha, 1e-15)
	assert.InDelta(t, 0.01488095, g.Fourier(alpha), 1e-7)
}

func TestNewGridOutputEvery(t *testing.T) {
	a := model.ReferenceAnalysis()
	a.OutputEvery = 0
	g, err := NewGrid(model.ReferenceWindow(), a)
	require.NoError(t, err)
	assert.Equal(t, 1, g.OutputEvery)

	a.OutputEvery = 100
	g, err = NewGrid(model.ReferenceWindow(), a)
	require.NoError(t, err)
	assert.Equal(t, 100, g.OutputEvery)
}

func TestNewGridFloorsSteps(t *testing.T) {
	a := model.ReferenceAnalysis()
	a.EndTime = 0.0105
	g, err := NewGrid(model.ReferenceWindow(), a)
	require.NoError(t, err)
	assert.Equal(t, 10, g.Steps)

	a.EndTime = 0.5e-3
	g, err = NewGrid(model.ReferenceWindow(), a)
	require.NoError(t, err)
	assert.Equal(t, 0, g.Steps)
}

func TestNewGridInvalid(t *testing.T) {
	cases := map[string]func(w *model.Window, a *model.Analysis){
		"two nodes":         func(w *model.Window, a *model.Analysis) { a.Nodes = 2 },
		"zero time step":    func(w *model.Window, a *model.Analysis) { a.TimeStep = 0 },
		"negative step":     func(w *model.Window, a *model.Analysis) { a.TimeStep = -1e-3 },
		"nan step":          func(w *model.Window, a *model.Analysis) { a.TimeStep = math.NaN() },
		"zero end time":     func(w *model.Window, a *model.Analysis) { a.EndTime = 0 },
		"negative output":   func(w *model.Window, a *model.Analysis) { a.OutputEvery = -1 },
		"zero thickness":    func(w *model.Window, a *model.Analysis) { w.Thickness = 0 },
		"negative density":  func(w *model.Window, a *model.Analysis) { w.Density = -2200 },
		"zero heat":         func(w *model.Window, a *model.Analysis) { w.SpecificHeat = 0 },
		"zero conductivity": func(w *model.Window, a *model.Analysis) { w.Conductivity = 0 },
		"inf thickness":     func(w *model.Window, a *model.Analysis) { w.Thickness = math.Inf(1) },
		"nan boundary":      func(w *model.Window, a *model.Analysis) { w.TempHigh = math.NaN() },
		"int overflow":      func(w *model.Window, a *model.Analysis) { a.EndTime = 1e20 },
		"too many steps":    func(w *model.Window, a *model.Analysis) { a.TimeStep = 1e-12 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			w, a := model.ReferenceWindow(), model.ReferenceAnalysis()
			mutate(&w, &a)
			_, err := NewGrid(w, a)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfiguration), err.Error())
		})
	}
}
