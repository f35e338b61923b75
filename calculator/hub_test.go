package calculator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heat1d/model"
)

func TestCalcHubPublishesFrames(t *testing.T) {
	a := model.ReferenceAnalysis()
	a.OutputEvery = 100
	c, err := NewCalculator(model.ReferenceWindow(), a, Implicit, DefaultConfig())
	require.NoError(t, err)

	hub := NewCalcHub(0)
	c.SetHub(hub)
	go func() {
		_, _ = c.Run()
	}()

	var steps []int
	for f := range hub.Frames {
		steps = append(steps, f.Step)
		assert.Len(t, f.Temperatures, 16)
	}
	s := <-hub.Finished
	assert.Equal(t, 500, s.Steps)
	// step 0 was recorded before the hub was attached
	assert.Equal(t, []int{100, 200, 300, 400, 500}, steps)
}

func TestCalcHubStopDoesNotBlockRun(t *testing.T) {
	c, err := NewCalculator(model.ReferenceWindow(), model.ReferenceAnalysis(), Explicit, DefaultConfig())
	require.NoError(t, err)

	hub := NewCalcHub(0)
	hub.StopSignal()
	hub.StopSignal()
	c.SetHub(hub)

	done := make(chan Summary)
	go func() {
		s, _ := c.Run()
		done <- s
	}()
	select {
	case s := <-done:
		assert.Equal(t, 500, s.Steps)
	case <-time.After(10 * time.Second):
		t.Fatal("run blocked on a stopped hub")
	}
	_, open := <-hub.Stopped()
	assert.False(t, open)
}

func TestCalcHubNil(t *testing.T) {
	var hub *CalcHub
	hub.PushFrame(model.Frame{})
	hub.Finish(Summary{})
	hub.StopSignal()
}
