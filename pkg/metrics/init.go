package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initComponentMetrics() {
	r.ReconcileItemsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "visgraph_reconcile_items_total",
			Help: "Dataset items mutated by reconciliation",
		},
		[]string{"collection", "op"},
	)

	r.ReconcileDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "visgraph_reconcile_duration_seconds",
			Help:    "Time spent reconciling one collection",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		},
		[]string{"collection"},
	)

	r.ReconcileSkippedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "visgraph_reconcile_skipped_total",
			Help: "Reconciliations short-circuited because the input was unchanged",
		},
		[]string{"collection"},
	)

	r.RedrawsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "visgraph_redraws_total",
			Help: "Redraws issued after container resizes",
		},
	)

	r.OptionErrorsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "visgraph_option_errors_total",
			Help: "Engine rejections of option updates",
		},
	)

	r.EventsDispatchedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "visgraph_events_dispatched_total",
			Help: "Engine events delivered to registered callbacks",
		},
		[]string{"event"},
	)
}

func (r *Registry) initLiveMetrics() {
	r.LiveSessions = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "visgraph_live_sessions",
			Help: "Connected live sessions",
		},
	)

	r.LiveFramesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "visgraph_live_frames_total",
			Help: "Live protocol frames by direction and kind",
		},
		[]string{"direction", "kind"},
	)
}

func (r *Registry) initHTTPMetrics() {
	r.HTTPRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "visgraph_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	r.HTTPRequestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "visgraph_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
}

func (r *Registry) initSnapshotMetrics() {
	r.SnapshotRendersTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "visgraph_snapshot_renders_total",
			Help: "Static snapshot renders by outcome",
		},
		[]string{"status"},
	)

	r.SnapshotRenderSeconds = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "visgraph_snapshot_render_seconds",
			Help:    "Graphviz render latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
}
