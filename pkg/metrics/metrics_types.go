// Package metrics exposes Prometheus metrics for visgraph components and the
// live server.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Component Metrics
	ReconcileItemsTotal   *prometheus.CounterVec
	ReconcileDuration     *prometheus.HistogramVec
	ReconcileSkippedTotal *prometheus.CounterVec
	RedrawsTotal          prometheus.Counter
	OptionErrorsTotal     prometheus.Counter
	EventsDispatchedTotal *prometheus.CounterVec

	// Live Metrics
	LiveSessions    prometheus.Gauge
	LiveFramesTotal *prometheus.CounterVec

	// HTTP Metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Snapshot Metrics
	SnapshotRendersTotal  *prometheus.CounterVec
	SnapshotRenderSeconds prometheus.Histogram

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}
	r.initComponentMetrics()
	r.initLiveMetrics()
	r.initHTTPMetrics()
	r.initSnapshotMetrics()
	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
