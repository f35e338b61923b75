package calculator

import (
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"heat1d/model"
)

// 差分格式
type Method uint8

const (
	Explicit Method = iota // FTCS 显式格式
	Implicit               // 后向欧拉 + Gauss-Seidel 迭代
)

func (m Method) String() string {
	switch m {
	case Explicit:
		return "explicit"
	case Implicit:
		return "implicit"
	default:
		return fmt.Sprintf("method(%d)", uint8(m))
	}
}

func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "explicit", "ftcs", "":
		return Explicit, nil
	case "implicit", "gauss-seidel", "gs":
		return Implicit, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

// Stepper advances the live field by one time step.
//
// On entry field holds the temperatures of the previous step with boundaries
// applied; scratch has the same length and belongs to the stepper between
// calls. On return field holds the new temperatures and both buffers carry
// the boundary values.
type Stepper interface {
	Method() Method
	Advance(field, scratch []float64) StepResult
}

// 单个时间步的计算结果
type StepResult struct {
	Step      int
	Time      float64
	Sweeps    int       // 隐式迭代次数，显式为 0
	Residual  float64   // 最后一次迭代的残差
	Residuals []float64 // 每次迭代的残差
	Converged bool
	Recorded  bool
	// ||A·T - b||_1 of the implicit system, only filled when debug logging is on
	SystemResidual float64
}

type State uint8

const (
	Initialized State = iota
	Stepping
	Completed
)

func (s State) String() string {
	switch s {
	case Initialized:
		return "initialized"
	case Stepping:
		return "stepping"
	case Completed:
		return "completed"
	}
	return "unknown"
}

// 一次计算的统计
type Summary struct {
	Method       Method
	Steps        int
	Frames       int
	Fourier      float64
	TotalSweeps  int
	MaxSweeps    int
	NonConverged []*NonConvergence
	Elapsed      time.Duration
}

type Calculator struct {
	window   model.Window
	grid     Grid
	cfg      Config
	fourier  float64
	boundary Boundary
	stepper  Stepper

	// 当前温度场和备用温度场
	field   []float64
	scratch []float64

	step  int
	state State

	recorder *Recorder
	hub      *CalcHub
	summary  Summary
}

// NewCalculator builds the grid, fills the field with TempLow, applies the
// boundaries and records step 0.
func NewCalculator(w model.Window, a model.Analysis, method Method, cfg Config) (*Calculator, error) {
	grid, err := NewGrid(w, a)
	if err != nil {
		return nil, err
	}
	if err = cfg.validate(); err != nil {
		return nil, err
	}

	c := &Calculator{
		window:   w,
		grid:     grid,
		cfg:      cfg,
		fourier:  grid.Fourier(w.Diffusivity()),
		boundary: Boundary{Low: w.TempLow, High: w.TempHigh},
		field:    make([]float64, grid.Nodes),
		scratch:  make([]float64, grid.Nodes),
		recorder: NewRecorder(grid),
	}

	switch method {
	case Explicit:
		c.stepper = newExplicitStepper(c.fourier, c.boundary)
		if c.fourier > cfg.StabilityLimit {
			log.WithFields(log.Fields{
				"fourier": c.fourier,
				"limit":   cfg.StabilityLimit,
				"dt":      grid.Dt,
				"dx":      grid.Dx,
			}).Warn("显式格式不稳定，温度场会出现振荡")
		}
	case Implicit:
		c.stepper = newImplicitStepper(c.fourier, c.boundary, cfg.MaxSweeps, cfg.Tolerance)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownMethod, method)
	}

	for i := range c.field {
		c.field[i] = w.TempLow
	}
	c.boundary.Apply(c.field)
	copy(c.scratch, c.field)

	c.summary = Summary{Method: method, Fourier: c.fourier}
	c.record()
	return c, nil
}

func (c *Calculator) Grid() Grid { return c.grid }

func (c *Calculator) Window() model.Window { return c.window }

func (c *Calculator) Method() Method { return c.stepper.Method() }

func (c *Calculator) State() State { return c.state }

func (c *Calculator) Recorder() *Recorder { return c.recorder }

func (c *Calculator) Summary() Summary { return c.summary }

// SetHub publishes every recorded frame to h.
func (c *Calculator) SetHub(h *CalcHub) { c.hub = h }

// Field returns a copy of the current temperatures.
func (c *Calculator) Field() []float64 {
	out := make([]float64, len(c.field))
	copy(out, c.field)
	return out
}

// Step advances the run by one time step and records it when due.
func (c *Calculator) Step() (StepResult, error) {
	if c.step >= c.grid.Steps {
		c.state = Completed
	}
	if c.state == Completed {
		return StepResult{}, ErrCompleted
	}
	c.state = Stepping

	res := c.stepper.Advance(c.field, c.scratch)
	c.step++
	res.Step = c.step
	res.Time = c.grid.Time(c.step)
	c.account(&res)

	if c.step%c.grid.OutputEvery == 0 || c.step == c.grid.Steps {
		c.record()
		res.Recorded = true
	}
	if c.step == c.grid.Steps {
		c.state = Completed
	}
	return res, nil
}

// Run steps until the end time and returns the run statistics.
func (c *Calculator) Run() (Summary, error) {
	if c.state == Completed {
		return c.summary, ErrCompleted
	}
	start := time.Now()
	log.WithFields(log.Fields{
		"method":  c.stepper.Method(),
		"nodes":   c.grid.Nodes,
		"steps":   c.grid.Steps,
		"dx":      c.grid.Dx,
		"dt":      c.grid.Dt,
		"fourier": c.fourier,
	}).Info("开始计算温度场")

	for c.state != Completed {
		if _, err := c.Step(); err != nil && err != ErrCompleted {
			return c.summary, err
		}
	}

	c.summary.Elapsed = time.Since(start)
	c.hub.Finish(c.summary)
	log.WithFields(log.Fields{
		"method":        c.summary.Method,
		"steps":         c.summary.Steps,
		"frames":        c.summary.Frames,
		"non_converged": len(c.summary.NonConverged),
		"elapsed":       c.summary.Elapsed,
	}).Info("计算结束")
	return c.summary, nil
}

func (c *Calculator) account(res *StepResult) {
	c.summary.Steps = c.step
	if c.stepper.Method() != Implicit {
		return
	}
	c.summary.TotalSweeps += res.Sweeps
	if res.Sweeps > c.summary.MaxSweeps {
		c.summary.MaxSweeps = res.Sweeps
	}
	if !res.Converged {
		nc := &NonConvergence{Step: res.Step, Time: res.Time, Sweeps: res.Sweeps, Residual: res.Residual}
		c.summary.NonConverged = append(c.summary.NonConverged, nc)
		log.WithFields(log.Fields{
			"step":     nc.Step,
			"sweeps":   nc.Sweeps,
			"residual": nc.Residual,
		}).Warn("迭代未收敛，采用最后一次迭代结果")
	}
	if log.IsLevelEnabled(log.DebugLevel) {
		log.WithFields(log.Fields{
			"step":            res.Step,
			"sweeps":          res.Sweeps,
			"residual":        res.Residual,
			"system_residual": res.SystemResidual,
		}).Debug("implicit step")
	}
}

func (c *Calculator) record() {
	frame := c.recorder.Record(c.step, c.grid.Time(c.step), c.field)
	c.summary.Frames = c.recorder.Len()
	c.hub.PushFrame(frame)
	if log.IsLevelEnabled(log.DebugLevel) {
		log.WithFields(log.Fields{
			"step": frame.Step,
			"time": frame.Time,
			"min":  floats.Min(c.field),
			"max":  floats.Max(c.field),
		}).Debug("记录温度场")
	}
}
