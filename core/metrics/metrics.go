// Package metrics provides the Prometheus instruments of the aggregation pipeline.
//
// Instruments live on a dedicated registry owned by the Metrics value, so several
// instances can coexist in one process. All Record methods are no-ops on a nil receiver.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Cycle outcomes.
const (
	OutcomeSuccess = "success"
	OutcomePartial = "partial"
	OutcomeFailed  = "failed"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	Registry *prometheus.Registry

	// Aggregation metrics
	CyclesTotal    *prometheus.CounterVec
	CycleDuration  prometheus.Histogram
	SourceFailures *prometheus.CounterVec
	SnapshotTokens prometheus.Gauge

	// Cache metrics
	CacheReads *prometheus.CounterVec

	// Push metrics
	Broadcasts       *prometheus.CounterVec
	ConnectedClients prometheus.Gauge
	DroppedClients   prometheus.Counter
	PollerSkips      prometheus.Counter
}

// New creates a Metrics instance with every metric registered on a fresh registry.
func New(cfg Config) *Metrics {
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "token_aggregator"
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		CyclesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "aggregator",
			Name:      "cycles_total",
			Help:      "Total number of aggregation cycles by outcome",
		}, []string{"outcome"}),
		CycleDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "aggregator",
			Name:      "cycle_duration_seconds",
			Help:      "Duration of aggregation cycles",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		SourceFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "aggregator",
			Name:      "source_failures_total",
			Help:      "Total number of failed source fetches by source",
		}, []string{"source"}),
		SnapshotTokens: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "aggregator",
			Name:      "snapshot_tokens",
			Help:      "Number of tokens in the current snapshot",
		}),

		CacheReads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "reads_total",
			Help:      "Total number of cache reads by tier and result",
		}, []string{"tier", "result"}),

		Broadcasts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "broadcast",
			Name:      "events_total",
			Help:      "Total number of broadcast events by kind",
		}, []string{"kind"}),
		ConnectedClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "broadcast",
			Name:      "connected_clients",
			Help:      "Number of connected push subscribers",
		}),
		DroppedClients: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "broadcast",
			Name:      "dropped_clients_total",
			Help:      "Total number of subscribers disconnected for falling behind",
		}),
		PollerSkips: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "poller",
			Name:      "skipped_ticks_total",
			Help:      "Total number of poller ticks skipped for lack of subscribers",
		}),
	}
}

// Handler returns the exposition handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// RecordCycle records an aggregation cycle.
func (m *Metrics) RecordCycle(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.CyclesTotal.WithLabelValues(outcome).Inc()
	m.CycleDuration.Observe(seconds)
}

// RecordSourceFailure increments the failure counter of one source.
func (m *Metrics) RecordSourceFailure(source string) {
	if m == nil {
		return
	}
	m.SourceFailures.WithLabelValues(source).Inc()
}

// SetSnapshotTokens updates the snapshot size gauge.
func (m *Metrics) SetSnapshotTokens(n int) {
	if m == nil {
		return
	}
	m.SnapshotTokens.Set(float64(n))
}

// RecordCacheRead records a cache lookup. result is "hit" or "miss".
func (m *Metrics) RecordCacheRead(tier, result string) {
	if m == nil {
		return
	}
	m.CacheReads.WithLabelValues(tier, result).Inc()
}

// RecordBroadcast records a published event.
func (m *Metrics) RecordBroadcast(kind string) {
	if m == nil {
		return
	}
	m.Broadcasts.WithLabelValues(kind).Inc()
}

// SetConnectedClients updates the subscriber gauge.
func (m *Metrics) SetConnectedClients(n int) {
	if m == nil {
		return
	}
	m.ConnectedClients.Set(float64(n))
}

// RecordDroppedClient records a subscriber disconnected for a full buffer.
func (m *Metrics) RecordDroppedClient() {
	if m == nil {
		return
	}
	m.DroppedClients.Inc()
}

// RecordPollerSkip records a tick skipped for lack of subscribers.
func (m *Metrics) RecordPollerSkip() {
	if m == nil {
		return
	}
	m.PollerSkips.Inc()
}
