package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsRecordAndServe(t *testing.T) {
	m := NewMetrics("studio_test")
	m.ObserveAPI(http.MethodGet, "/api/videos", 200, 10*time.Millisecond)
	m.IncPlay("videos", "ok")
	m.IncPlay("videos", "ok")
	m.ObserveReconcile("ok", 3, 0)

	if got := testutil.ToFloat64(m.plays.WithLabelValues("videos", "ok")); got != 2 {
		t.Fatalf("plays: want 2 got=%v", got)
	}
	if got := testutil.ToFloat64(m.reconciled.WithLabelValues("expired")); got != 3 {
		t.Fatalf("reconciled: want 3 got=%v", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "studio_test_api_requests_total") {
		t.Fatalf("metrics output missing api counter:\n%s", body)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/", 200, time.Millisecond)
	m.IncSave("videos", "save")
	m.ObserveReconcile("error", 0, 1)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("nil metrics handler: want 404 got=%d", rec.Code)
	}
}

func TestParseOTLPHeaders(t *testing.T) {
	got := ParseOTLPHeaders("x-api-key=abc, bad ,=skip,tenant=piano")
	if len(got) != 2 || got["x-api-key"] != "abc" || got["tenant"] != "piano" {
		t.Fatalf("ParseOTLPHeaders: got=%v", got)
	}
	if ParseOTLPHeaders("  ") != nil {
		t.Fatalf("ParseOTLPHeaders: expected nil for blank")
	}
}
