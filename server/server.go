package server

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"heat1d/calculator"
	"heat1d/material"
)

type Server struct {
	addr     string
	upgrader websocket.Upgrader
	cfg      calculator.Config
	catalog  *material.Catalog

	registry *prometheus.Registry
	metrics  *Metrics
}

func NewServer(addr string, upgrader websocket.Upgrader, cfg calculator.Config, catalog *material.Catalog) *Server {
	if catalog == nil {
		catalog = material.Default()
	}
	registry := prometheus.NewRegistry()
	return &Server{
		addr:     addr,
		upgrader: upgrader,
		cfg:      cfg,
		catalog:  catalog,
		registry: registry,
		metrics:  NewMetrics(registry),
	}
}

// serveWs handles websocket requests from the peer.
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	hub := NewHub(uuid.New().String(), conn, s.cfg, s.catalog, s.metrics)
	s.metrics.sessions.Inc()
	defer s.metrics.sessions.Dec()
	log.WithFields(log.Fields{"session": hub.id, "remote": r.RemoteAddr}).Info("会话建立")

	go hub.handleRequest()
	go hub.handleResponse()
	hub.readLoop()
	log.WithField("session", hub.id).Info("会话结束")
}

// Handler 返回包含 /ws 和 /metrics 的路由
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWs)
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return mux
}

func (s *Server) Addr() string { return s.addr }

func (s *Server) Serve() error {
	log.WithField("addr", s.addr).Info("server listening")
	return http.ListenAndServe(s.addr, s.Handler())
}
