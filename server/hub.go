package server

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"heat1d/calculator"
	"heat1d/deque"
	"heat1d/material"
	"heat1d/model"
)

// 请求和回复的消息类型
const (
	MsgEnv     = "env"
	MsgStart   = "start"
	MsgStop    = "stop"
	MsgHistory = "history"

	MsgEnvSet   = "envSet"
	MsgStarted  = "started"
	MsgFrame    = "frame"
	MsgFinished = "finished"
	MsgStopped  = "stopped"
	MsgError    = "error"
)

var (
	errEnvNotSet  = errors.New("env is not set")
	errRunning    = errors.New("a run is in progress")
	errNotRunning = errors.New("no run in progress")
)

// Hub 对应一个 websocket 连接
// conn 只在 handleResponse 中写，所有回复都经过 out
type Hub struct {
	id      string
	conn    *websocket.Conn
	cfg     calculator.Config
	catalog *material.Catalog
	metrics *Metrics

	// request
	msg chan model.Msg
	// response
	out chan model.Msg
	// 连接断开后关闭
	done chan struct{}

	// 以下字段只在 handleRequest 中访问
	env    *model.Env
	window model.Window
	method calculator.Method

	mu      sync.Mutex
	running *calculator.CalcHub
	// stop 之后为 true，温度场继续进入 history 但不再发送
	muted   bool
	history *deque.ArrDeque
}

func NewHub(id string, conn *websocket.Conn, cfg calculator.Config, catalog *material.Catalog, metrics *Metrics) *Hub {
	return &Hub{
		id:      id,
		conn:    conn,
		cfg:     cfg,
		catalog: catalog,
		metrics: metrics,
		msg:     make(chan model.Msg, 10),
		out:     make(chan model.Msg, 10),
		done:    make(chan struct{}),
	}
}

func (h *Hub) readLoop() {
	defer close(h.done)
	for {
		_, data, err := h.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithField("session", h.id).WithError(err).Warn("read failed")
			}
			return
		}
		var msg model.Msg
		if err = json.Unmarshal(data, &msg); err != nil {
			h.replyError(err)
			continue
		}
		h.msg <- msg
	}
}

func (h *Hub) handleResponse() {
	for {
		select {
		case reply := <-h.out:
			if err := h.conn.WriteJSON(&reply); err != nil {
				log.WithField("session", h.id).WithError(err).Warn("write failed")
			}
		case <-h.done:
			return
		}
	}
}

func (h *Hub) handleRequest() {
	for {
		select {
		case msg := <-h.msg:
			var err error
			switch msg.Type {
			case MsgEnv:
				err = h.setEnv(msg.Content)
			case MsgStart:
				err = h.start()
			case MsgStop:
				if err = h.mute(); err == nil {
					h.send(model.Msg{Type: MsgStopped, Content: "stopped"})
				}
			case MsgHistory:
				err = h.replyJSON(MsgHistory, h.historyFrames())
			default:
				err = errors.New("no such type: " + msg.Type)
			}
			if err != nil {
				h.replyError(err)
			}
		case <-h.done:
			h.release()
			return
		}
	}
}

func (h *Hub) setEnv(content string) error {
	var env model.Env
	if err := json.Unmarshal([]byte(content), &env); err != nil {
		return err
	}
	method, err := calculator.ParseMethod(env.Method)
	if err != nil {
		return err
	}
	w := env.Window
	if env.Material != "" {
		m, err := h.catalog.Lookup(env.Material)
		if err != nil {
			return err
		}
		w = m.Window(w.Thickness, w.TempLow, w.TempHigh)
	}
	grid, err := calculator.NewGrid(w, env.Analysis)
	if err != nil {
		return err
	}

	h.env, h.window, h.method = &env, w, method
	log.WithFields(log.Fields{
		"session": h.id,
		"method":  method,
		"nodes":   grid.Nodes,
		"steps":   grid.Steps,
		"fourier": grid.Fourier(w.Diffusivity()),
	}).Info("计算条件已设置")
	return h.replyJSON(MsgEnvSet, grid)
}

func (h *Hub) start() error {
	if h.env == nil {
		return errEnvNotSet
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running != nil {
		return errRunning
	}

	c, err := calculator.NewCalculator(h.window, h.env.Analysis, h.method, h.cfg)
	if err != nil {
		return err
	}
	ch := calculator.NewCalcHub(h.cfg.HistoryFrames)
	c.SetHub(ch)
	h.running = ch
	h.muted = false
	h.history = deque.NewArrDeque(h.cfg.HistoryFrames, c.Grid().Nodes)

	runID := uuid.New().String()
	h.send(model.Msg{Type: MsgStarted, Content: runID})
	// 第 0 步在 SetHub 之前已经记录
	first := c.Recorder().Frame(0)
	h.keep(first)
	if err = h.replyJSON(MsgFrame, first); err != nil {
		return err
	}

	go func() {
		if _, err := c.Run(); err != nil {
			log.WithField("run", runID).WithError(err).Error("run failed")
			ch.Finish(c.Summary())
		}
	}()
	go h.stream(runID, ch)
	return nil
}

// stream 把计算推送的温度场转发给前端，stop 之后只保留历史不再发送
func (h *Hub) stream(runID string, ch *calculator.CalcHub) {
	for f := range ch.Frames {
		h.mu.Lock()
		h.keep(f)
		muted := h.muted
		h.mu.Unlock()
		if !muted {
			_ = h.replyJSON(MsgFrame, f)
		}
	}
	s := <-ch.Finished
	h.metrics.observe(s)

	h.mu.Lock()
	if h.running == ch {
		h.running = nil
	}
	h.mu.Unlock()

	info := model.RunInfo{
		RunId:        runID,
		Method:       s.Method.String(),
		Steps:        s.Steps,
		Frames:       s.Frames,
		Fourier:      s.Fourier,
		NonConverged: len(s.NonConverged),
		MaxSweeps:    s.MaxSweeps,
		ElapsedMs:    s.Elapsed.Milliseconds(),
	}
	log.WithFields(log.Fields{"session": h.id, "run": runID, "steps": s.Steps}).Info("推送结束")
	_ = h.replyJSON(MsgFinished, info)
}

// mute 停止发送当前计算的温度场，计算本身继续到终了时刻
func (h *Hub) mute() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running == nil {
		return errNotRunning
	}
	h.muted = true
	return nil
}

// release 连接断开后不再需要温度场
func (h *Hub) release() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.running.StopSignal()
}

// keep 保存最近的 HistoryFrames 个温度场，调用时持有 mu
func (h *Hub) keep(f model.Frame) {
	if h.history.IsFull() {
		h.history.RemoveFirst()
	}
	h.history.AddLast(f)
}

func (h *Hub) historyFrames() []model.Frame {
	h.mu.Lock()
	defer h.mu.Unlock()
	frames := []model.Frame{}
	if h.history == nil {
		return frames
	}
	for i := 0; i < h.history.Size(); i++ {
		frames = append(frames, h.history.Get(i))
	}
	return frames
}

func (h *Hub) send(m model.Msg) bool {
	select {
	case h.out <- m:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) replyJSON(typ string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.send(model.Msg{Type: typ, Content: string(data)})
	return nil
}

func (h *Hub) replyError(err error) {
	log.WithField("session", h.id).WithError(err).Warn("request rejected")
	h.send(model.Msg{Type: MsgError, Content: err.Error()})
}
