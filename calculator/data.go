package calculator

import (
	"heat1d/model"
)

// Recorder 保存每个记录时刻的温度场，供绘图、导出、推送使用
//
// Frames are copied on the way in and on the way out, so samples already
// recorded never change.
type Recorder struct {
	positions []float64
	frames    []model.Frame
}

// 预分配的记录步数上限，超过后由 append 扩容
const maxPreallocFrames = 1024

func NewRecorder(g Grid) *Recorder {
	positions := make([]float64, len(g.Positions))
	copy(positions, g.Positions)
	capacity := 2
	if g.OutputEvery > 0 && g.Steps > 0 {
		capacity += g.Steps / g.OutputEvery
	}
	if capacity > maxPreallocFrames {
		capacity = maxPreallocFrames
	}
	return &Recorder{
		positions: positions,
		frames:    make([]model.Frame, 0, capacity),
	}
}

// Record appends a copy of field as the frame of the given step.
func (r *Recorder) Record(step int, t float64, field []float64) model.Frame {
	temps := make([]float64, len(field))
	copy(temps, field)
	frame := model.Frame{Step: step, Time: t, Temperatures: temps}
	r.frames = append(r.frames, frame)
	return copyFrame(frame)
}

// Len 已记录的时间步数
func (r *Recorder) Len() int {
	return len(r.frames)
}

// Size 样本总数 = 记录步数 * 节点数
func (r *Recorder) Size() int {
	return len(r.frames) * len(r.positions)
}

func (r *Recorder) Positions() []float64 {
	out := make([]float64, len(r.positions))
	copy(out, r.positions)
	return out
}

func (r *Recorder) Frame(i int) model.Frame {
	return copyFrame(r.frames[i])
}

func (r *Recorder) Last() (model.Frame, bool) {
	if len(r.frames) == 0 {
		return model.Frame{}, false
	}
	return copyFrame(r.frames[len(r.frames)-1]), true
}

func (r *Recorder) Frames() []model.Frame {
	out := make([]model.Frame, len(r.frames))
	for i := range r.frames {
		out[i] = copyFrame(r.frames[i])
	}
	return out
}

// Traverse replays the samples in (step, node) order. It can be called any
// number of times.
func (r *Recorder) Traverse(f func(i int, s model.Sample)) {
	k := 0
	for _, frame := range r.frames {
		for node, temp := range frame.Temperatures {
			f(k, model.Sample{Time: frame.Time, Position: r.positions[node], Temperature: temp})
			k++
		}
	}
}

// Samples flattens every frame into (time, position, temperature) triples.
func (r *Recorder) Samples() []model.Sample {
	out := make([]model.Sample, 0, r.Size())
	r.Traverse(func(_ int, s model.Sample) {
		out = append(out, s)
	})
	return out
}

func copyFrame(f model.Frame) model.Frame {
	temps := make([]float64, len(f.Temperatures))
	copy(temps, f.Temperatures)
	f.Temperatures = temps
	return f
}
