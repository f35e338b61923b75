package calculator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heat1d/model"
)

func TestRunBatch(t *testing.T) {
	var jobs []Job
	for _, nodes := range []int{8, 16, 2, 32, 12} {
		a := model.ReferenceAnalysis()
		a.Nodes = nodes
		a.EndTime = 0.05
		jobs = append(jobs, Job{Name: "nodes", Window: model.ReferenceWindow(), Analysis: a, Method: Implicit})
	}
	cfg := DefaultConfig()
	cfg.Workers = 3

	results := RunBatch(jobs, cfg)
	require.Len(t, results, len(jobs))
	for i, res := range results {
		assert.Equal(t, jobs[i].Analysis.Nodes, res.Job.Analysis.Nodes)
		if jobs[i].Analysis.Nodes < 3 {
			assert.True(t, errors.Is(res.Err, ErrInvalidConfiguration))
			assert.Nil(t, res.Recorder)
			continue
		}
		require.NoError(t, res.Err)
		assert.Len(t, res.Final, jobs[i].Analysis.Nodes)
		assert.Equal(t, 50, res.Summary.Steps)
		assert.Equal(t, 51, res.Recorder.Len())
	}
}

func TestRunBatchEmpty(t *testing.T) {
	assert.Empty(t, RunBatch(nil, DefaultConfig()))
}
