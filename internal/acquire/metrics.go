// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for rfc_fetch_requests_total.
const (
	outcomeOK       = "ok"
	outcomeNotFound = "not_found"
	outcomeError    = "error"
)

// Metrics holds Prometheus collectors for the fetcher.
//
// Metrics:
//   - rfc_fetch_requests_total{format,outcome} - mirror requests by result
//   - rfc_fetch_disk_hits_total{format} - documents served from the raw mirror
type Metrics struct {
	Requests *prometheus.CounterVec
	DiskHits *prometheus.CounterVec
}

// NewMetrics creates the fetcher collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rfc_fetch_requests_total",
				Help: "Total number of RFC mirror requests",
			},
			[]string{"format", "outcome"},
		),
		DiskHits: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rfc_fetch_disk_hits_total",
				Help: "Total number of RFC documents served from the raw mirror",
			},
			[]string{"format"},
		),
	}
}
