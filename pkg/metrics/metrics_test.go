package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r.ReconcileItemsTotal == nil || r.LiveFramesTotal == nil || r.HTTPRequestsTotal == nil {
		t.Fatal("metrics not initialized")
	}
	if r.GetPrometheusRegistry() == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	if DefaultRegistry() != DefaultRegistry() {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestObserveReconcile(t *testing.T) {
	r := NewRegistry()
	r.ObserveReconcile("nodes", 2, 1, 0, time.Millisecond)
	r.ObserveReconcile("nodes", 1, 0, 3, time.Millisecond)
	r.ObserveReconcileSkipped("edges")

	if got := testutil.ToFloat64(r.ReconcileItemsTotal.WithLabelValues("nodes", "add")); got != 3 {
		t.Errorf("nodes add = %v, want 3", got)
	}
	if got := testutil.ToFloat64(r.ReconcileItemsTotal.WithLabelValues("nodes", "remove")); got != 3 {
		t.Errorf("nodes remove = %v, want 3", got)
	}
	if got := testutil.ToFloat64(r.ReconcileSkippedTotal.WithLabelValues("edges")); got != 1 {
		t.Errorf("edges skipped = %v, want 1", got)
	}
}

func TestSessionsAndSnapshots(t *testing.T) {
	r := NewRegistry()
	r.SessionOpened()
	r.SessionOpened()
	r.SessionClosed()
	r.RecordSnapshot(nil, time.Millisecond)
	r.RecordSnapshot(errors.New("boom"), time.Millisecond)

	if got := testutil.ToFloat64(r.LiveSessions); got != 1 {
		t.Errorf("sessions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.SnapshotRendersTotal.WithLabelValues("error")); got != 1 {
		t.Errorf("snapshot errors = %v, want 1", got)
	}
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	r := NewRegistry()
	router := chi.NewRouter()
	router.Use(r.Middleware)
	router.Get("/live/{session}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	router.Get("/metrics", r.Handler().ServeHTTP)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/live/abc", nil))

	if got := testutil.ToFloat64(r.HTTPRequestsTotal.WithLabelValues("GET", "/live/{session}", "418")); got != 1 {
		t.Errorf("requests = %v, want 1", got)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "visgraph_http_requests_total") {
		t.Error("exposition output missing request counter")
	}
}
