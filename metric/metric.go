// Package metric provides Prometheus instruments for the write path. All
// metrics live in the "writeflow" namespace behind a private registry so
// embedding applications control exposition themselves.
package metric

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics contains the write-path instruments. Outer request accounting
// (WritesTotal, WriteDuration, WritesInFlight) counts one increment per
// manager write; AttemptsTotal counts every inner attempt, so the two
// diverge exactly when retries occur.
type Metrics struct {
	WritesTotal    *prometheus.CounterVec
	WriteDuration  *prometheus.HistogramVec
	AttemptsTotal  *prometheus.CounterVec
	WritesInFlight *prometheus.GaugeVec
}

// NewMetrics creates the write-path instruments
func NewMetrics() *Metrics {
	return &Metrics{
		WritesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "writeflow",
				Subsystem: "writes",
				Name:      "total",
				Help:      "Total write requests by final outcome",
			},
			[]string{"writer", "type", "status"},
		),

		WriteDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "writeflow",
				Subsystem: "writes",
				Name:      "duration_seconds",
				Help:      "Write request duration in seconds, including retries",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"writer", "type"},
		),

		AttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "writeflow",
				Subsystem: "writes",
				Name:      "attempts_total",
				Help:      "Total inner write attempts, including retries",
			},
			[]string{"writer", "type"},
		),

		WritesInFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "writeflow",
				Subsystem: "writes",
				Name:      "in_flight",
				Help:      "Write requests currently executing",
			},
			[]string{"writer"},
		),
	}
}

// Registry bundles the write-path metrics with the Prometheus registry they
// are registered in
type Registry struct {
	prom    *prometheus.Registry
	Metrics *Metrics
}

// NewRegistry creates a private Prometheus registry holding the write-path
// metrics plus Go runtime and process collectors
func NewRegistry() *Registry {
	prom := prometheus.NewRegistry()

	m := NewMetrics()
	prom.MustRegister(
		m.WritesTotal,
		m.WriteDuration,
		m.AttemptsTotal,
		m.WritesInFlight,
	)
	prom.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Registry{prom: prom, Metrics: m}
}

// Prometheus returns the underlying registry for exposition by the
// embedding application
func (r *Registry) Prometheus() *prometheus.Registry {
	return r.prom
}
