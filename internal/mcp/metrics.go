// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mcp

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Tool call outcomes.
const (
	outcomeOK    = "ok"
	outcomeError = "error"
)

// Metrics counts tool invocations.
type Metrics struct {
	Invocations *prometheus.CounterVec
	Duration    *prometheus.HistogramVec
}

// NewMetrics creates the tool collectors and registers them with reg. A nil
// reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Invocations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "rfc_tool_invocations_total",
			Help: "Tool invocations by tool name and outcome.",
		}, []string{"tool", "outcome"}),
		Duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rfc_tool_duration_seconds",
			Help:    "Duration of tool invocations.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"tool"}),
	}
}

func (m *Metrics) record(tool string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := outcomeOK
	if err != nil {
		outcome = outcomeError
	}
	m.Invocations.WithLabelValues(tool, outcome).Inc()
	m.Duration.WithLabelValues(tool).Observe(time.Since(start).Seconds())
}
