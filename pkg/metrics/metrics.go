package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ObserveReconcile records one reconciliation pass of a collection.
func (r *Registry) ObserveReconcile(collection string, added, updated, removed int, d time.Duration) {
	r.ReconcileItemsTotal.WithLabelValues(collection, "add").Add(float64(added))
	r.ReconcileItemsTotal.WithLabelValues(collection, "update").Add(float64(updated))
	r.ReconcileItemsTotal.WithLabelValues(collection, "remove").Add(float64(removed))
	r.ReconcileDuration.WithLabelValues(collection).Observe(d.Seconds())
}

// ObserveReconcileSkipped records a short-circuited reconciliation.
func (r *Registry) ObserveReconcileSkipped(collection string) {
	r.ReconcileSkippedTotal.WithLabelValues(collection).Inc()
}

// ObserveRedraw records a resize-driven redraw.
func (r *Registry) ObserveRedraw() {
	r.RedrawsTotal.Inc()
}

// ObserveOptionError records a rejected option update.
func (r *Registry) ObserveOptionError() {
	r.OptionErrorsTotal.Inc()
}

// ObserveEvent records an event delivered to a callback.
func (r *Registry) ObserveEvent(name string) {
	r.EventsDispatchedTotal.WithLabelValues(name).Inc()
}

// RecordFrame counts one live frame. direction is "in" or "out".
func (r *Registry) RecordFrame(direction, kind string) {
	r.LiveFramesTotal.WithLabelValues(direction, kind).Inc()
}

// SessionOpened and SessionClosed track connected live sessions.
func (r *Registry) SessionOpened() { r.LiveSessions.Inc() }

func (r *Registry) SessionClosed() { r.LiveSessions.Dec() }

// RecordSnapshot records a snapshot render.
func (r *Registry) RecordSnapshot(err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
	}
	r.SnapshotRendersTotal.WithLabelValues(status).Inc()
	r.SnapshotRenderSeconds.Observe(d.Seconds())
}

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Middleware records every request under its chi route pattern.
func (r *Registry) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		next.ServeHTTP(ww, req)

		route := "unmatched"
		if rc := chi.RouteContext(req.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		r.RecordHTTPRequest(req.Method, route, strconv.Itoa(status), time.Since(start))
	})
}
