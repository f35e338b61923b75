package calculator

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"heat1d/model"
)

// Job 一次独立的计算
type Job struct {
	Name     string
	Window   model.Window
	Analysis model.Analysis
	Method   Method
}

type BatchResult struct {
	Job      Job
	Summary  Summary
	Final    []float64
	Recorder *Recorder
	Err      error
	Duration time.Duration
}

type task struct {
	index int
	job   Job
}

// 多个计算任务分配给固定数量的 worker
//
// Every run owns its field, scratch buffer and recorder; workers share
// nothing but the task channel and write to distinct result slots.
type executor struct {
	workers      int
	cfg          Config
	dispatchChan chan task
}

func newExecutor(cfg Config) *executor {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	return &executor{
		workers:      workers,
		cfg:          cfg,
		dispatchChan: make(chan task, workers),
	}
}

// RunBatch runs independent jobs concurrently and returns results in job order.
func RunBatch(jobs []Job, cfg Config) []BatchResult {
	return newExecutor(cfg).dispatchTask(jobs)
}

func (e *executor) dispatchTask(jobs []Job) []BatchResult {
	results := make([]BatchResult, len(jobs))
	start := time.Now()

	var wg sync.WaitGroup
	wg.Add(e.workers)
	for i := 0; i < e.workers; i++ {
		go func() {
			defer wg.Done()
			for t := range e.dispatchChan {
				results[t.index] = e.run(t.job)
			}
		}()
	}
	for i, job := range jobs {
		e.dispatchChan <- task{index: i, job: job}
	}
	close(e.dispatchChan)
	wg.Wait()

	log.WithFields(log.Fields{
		"jobs":    len(jobs),
		"workers": e.workers,
		"elapsed": time.Since(start),
	}).Info("批量计算完成")
	return results
}

func (e *executor) run(job Job) BatchResult {
	start := time.Now()
	res := BatchResult{Job: job}
	c, err := NewCalculator(job.Window, job.Analysis, job.Method, e.cfg)
	if err != nil {
		res.Err = err
		return res
	}
	res.Summary, res.Err = c.Run()
	res.Final = c.Field()
	res.Recorder = c.Recorder()
	res.Duration = time.Since(start)
	return res
}
