package server

import (
	"github.com/prometheus/client_golang/prometheus"

	"heat1d/calculator"
)

const namespace = "heat1d"

type Metrics struct {
	sessions     prometheus.Gauge
	runs         *prometheus.CounterVec
	steps        *prometheus.CounterVec
	nonConverged prometheus.Counter
	sweeps       prometheus.Histogram
	duration     *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions",
			Help:      "Open websocket sessions.",
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Finished runs by method.",
		}, []string{"method"}),
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_total",
			Help:      "Time steps computed by method.",
		}, []string{"method"}),
		nonConverged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nonconverged_steps_total",
			Help:      "Implicit steps that hit the sweep cap.",
		}),
		sweeps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_max_sweeps",
			Help:      "Largest number of Gauss-Seidel sweeps in one step of an implicit run.",
			Buckets:   []float64{1, 2, 5, 10, 20, 50, 100, 200},
		}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of a run.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"method"}),
	}
	reg.MustRegister(m.sessions, m.runs, m.steps, m.nonConverged, m.sweeps, m.duration)
	return m
}

func (m *Metrics) observe(s calculator.Summary) {
	method := s.Method.String()
	m.runs.WithLabelValues(method).Inc()
	m.steps.WithLabelValues(method).Add(float64(s.Steps))
	m.duration.WithLabelValues(method).Observe(s.Elapsed.Seconds())
	if s.Method == calculator.Implicit {
		m.nonConverged.Add(float64(len(s.NonConverged)))
		m.sweeps.Observe(float64(s.MaxSweeps))
	}
}
