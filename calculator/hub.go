package calculator

import (
	"sync"

	"heat1d/model"
)

// CalcHub 把计算过程中记录的温度场推送给外部（websocket 等）
//
// A stopped hub drops frames instead of blocking; the run itself always
// continues to its end time.
type CalcHub struct {
	Frames   chan model.Frame
	Finished chan Summary

	stop     chan struct{}
	stopOnce sync.Once
	doneOnce sync.Once
}

func NewCalcHub(buffer int) *CalcHub {
	if buffer < 0 {
		buffer = 0
	}
	return &CalcHub{
		Frames:   make(chan model.Frame, buffer),
		Finished: make(chan Summary, 1),
		stop:     make(chan struct{}),
	}
}

// 推送温度场
func (ch *CalcHub) PushFrame(f model.Frame) {
	if ch == nil {
		return
	}
	select {
	case ch.Frames <- f:
	case <-ch.stop:
	}
}

// Finish closes Frames and publishes the summary. Consumers range over Frames
// and then read Finished.
func (ch *CalcHub) Finish(s Summary) {
	if ch == nil {
		return
	}
	ch.doneOnce.Do(func() {
		close(ch.Frames)
		ch.Finished <- s
	})
}

func (ch *CalcHub) StopSignal() {
	if ch == nil {
		return
	}
	ch.stopOnce.Do(func() {
		close(ch.stop)
	})
}

func (ch *CalcHub) Stopped() <-chan struct{} {
	return ch.stop
}
