// Package metrics defines the Prometheus collectors exported by the server.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hallcount"

// Metrics groups the service collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	rpcDuration   *prometheus.HistogramVec
	scans         *prometheus.CounterVec
	verifications *prometheus.CounterVec
	accuracy      prometheus.Histogram
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		rpcDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "Duration of AttendanceService RPCs.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure", "code"}),
		scans: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scans_total",
			Help:      "Completed image scans by kind (hall, signatures).",
		}, []string{"kind"}),
		verifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verifications_total",
			Help:      "Verifications by outcome status.",
		}, []string{"status"}),
		accuracy: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_accuracy",
			Help:      "Accuracy percentage of compared attendance counts.",
			Buckets:   []float64{50, 75, 90, 95, 98, 100},
		}),
	}
}

// ObserveRPC records the duration of a finished RPC.
func (m *Metrics) ObserveRPC(procedure, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.rpcDuration.WithLabelValues(procedure, code).Observe(d.Seconds())
}

// ObserveScan counts a completed scan. kind is "hall" or "signatures".
func (m *Metrics) ObserveScan(kind string) {
	if m == nil {
		return
	}
	m.scans.WithLabelValues(kind).Inc()
}

// ObserveVerification records the outcome of a comparison.
func (m *Metrics) ObserveVerification(status string, accuracy float64) {
	if m == nil {
		return
	}
	m.verifications.WithLabelValues(status).Inc()
	m.accuracy.Observe(accuracy)
}
