// Package metrics defines the Prometheus collectors exported on /metrics.
//
// All methods are safe on a nil *Metrics so packages can record
// unconditionally and tests can leave metrics out.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/receiptsplit/internal/sanitizer"
)

const namespace = "receiptsplit"

// Metrics holds every collector the service exports.
type Metrics struct {
	registry *prometheus.Registry

	rpcRequests          *prometheus.CounterVec
	rpcDuration          *prometheus.HistogramVec
	extractionAttempts   *prometheus.CounterVec
	extractionFallbacks  *prometheus.CounterVec
	extractionDuration   *prometheus.HistogramVec
	sanitizerCorrections *prometheus.CounterVec
}

// New creates the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		rpcRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		rpcDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		extractionAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extraction_attempts_total",
			Help:      "Receipt extraction calls by model and outcome.",
		}, []string{"model", "outcome"}),
		extractionFallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extraction_fallbacks_total",
			Help:      "Fallbacks to another model after a rate limit.",
		}, []string{"from", "to"}),
		extractionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "extraction_duration_seconds",
			Help:      "Vision model latency by model.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 60},
		}, []string{"model"}),
		sanitizerCorrections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sanitizer_corrections_total",
			Help:      "Sanitizer repairs by kind.",
		}, []string{"kind"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveRPC records one finished RPC.
func (m *Metrics) ObserveRPC(procedure, code string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.rpcRequests.WithLabelValues(procedure, code).Inc()
	m.rpcDuration.WithLabelValues(procedure).Observe(elapsed.Seconds())
}

// ObserveExtraction records one call to the vision model.
func (m *Metrics) ObserveExtraction(model, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.extractionAttempts.WithLabelValues(model, outcome).Inc()
	m.extractionDuration.WithLabelValues(model).Observe(elapsed.Seconds())
}

// ObserveFallback records a switch from one model to another.
func (m *Metrics) ObserveFallback(from, to string) {
	if m == nil {
		return
	}
	m.extractionFallbacks.WithLabelValues(from, to).Inc()
}

// ObserveSanitizer records what one sanitizer pass changed.
func (m *Metrics) ObserveSanitizer(report sanitizer.Report) {
	if m == nil {
		return
	}
	if n := len(report.Flipped); n > 0 {
		m.sanitizerCorrections.WithLabelValues("sign_flip").Add(float64(n))
	}
	if report.RoundOff == nil {
		return
	}
	switch {
	case report.RoundOff.Corrected:
		m.sanitizerCorrections.WithLabelValues("round_off").Inc()
	case report.Mismatch():
		m.sanitizerCorrections.WithLabelValues("total_mismatch").Inc()
	}
}
