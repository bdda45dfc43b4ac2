// Package metrics provides Prometheus metrics for coolboost.
// There is no listener: the registry is flushed to a node_exporter
// textfile collector path when one is configured.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every coolboost collector.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

// ─── Sensors ────────────────────────────────────────────────────────────────

// Temperature tracks the last successful reading per sensor.
var Temperature = factory.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "coolboost",
	Name:      "temperature_celsius",
	Help:      "Last temperature read from the msi-ec driver.",
}, []string{"sensor"})

// ReadFailures counts failed sensor reads by sensor and reason.
var ReadFailures = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "coolboost",
	Name:      "read_failures_total",
	Help:      "Total failed temperature reads.",
}, []string{"sensor", "reason"})

// ─── Actuator ───────────────────────────────────────────────────────────────

// BoostEnabled is 1 while cooler boost is confirmed on.
var BoostEnabled = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "coolboost",
	Name:      "boost_enabled",
	Help:      "Confirmed cooler boost state (1=on, 0=off).",
})

// BoostTransitions counts confirmed boost switches by direction.
var BoostTransitions = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "coolboost",
	Name:      "boost_transitions_total",
	Help:      "Total confirmed cooler boost transitions.",
}, []string{"to"})

// WriteFailures counts boost writes that were not confirmed.
var WriteFailures = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "coolboost",
	Name:      "write_failures_total",
	Help:      "Total failed cooler boost writes.",
}, []string{"reason"})

// ─── Loop ───────────────────────────────────────────────────────────────────

// CycleDuration tracks how long one read-decide-act cycle takes.
var CycleDuration = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "coolboost",
	Name:      "cycle_duration_seconds",
	Help:      "Poll cycle duration in seconds.",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
})

// Decisions counts controller outcomes by reason.
var Decisions = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "coolboost",
	Name:      "decisions_total",
	Help:      "Controller decisions by reason.",
}, []string{"reason"})

// ─── Health ─────────────────────────────────────────────────────────────────

// HealthCheckStatus tracks health check results (1=healthy, 0=unhealthy).
var HealthCheckStatus = factory.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "coolboost",
	Name:      "health_check_status",
	Help:      "Health check result per component (1=healthy, 0=unhealthy).",
}, []string{"check"})

// WriteTextfile writes the registry in text exposition format to path,
// atomically, for node_exporter's textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
