package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mercaldo/ledger/internal/infrastructure/metrics"
)

// Registered once; promauto panics on duplicate registration.
var testMetrics = metrics.New()

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	mw := NewMetricsMiddleware(testMetrics)

	router := chi.NewRouter()
	router.Use(mw.Wrap)
	router.Get("/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/events/abc123", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusTeapot {
		t.Fatalf("unexpected status code: %d", rr.Code)
	}

	// The route pattern keeps raw IDs out of the path label.
	counter := testMetrics.HTTPRequests.WithLabelValues(http.MethodGet, "/events/{id}", "418")
	if got := testutil.ToFloat64(counter); got != 1 {
		t.Fatalf("expected counter to be 1, got %v", got)
	}
}

func TestMetricsMiddlewareFallsBackToRawPath(t *testing.T) {
	mw := NewMetricsMiddleware(testMetrics)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()

	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rr, req)

	counter := testMetrics.HTTPRequests.WithLabelValues(http.MethodGet, "/healthz", "200")
	if got := testutil.ToFloat64(counter); got != 1 {
		t.Fatalf("expected counter to be 1, got %v", got)
	}
}
