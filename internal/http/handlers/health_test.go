package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func serveHealth(h *HealthHandler) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/healthcheck", h.HealthCheck)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	return rec
}

func TestHealthCheckWithoutProbes(t *testing.T) {
	rec := serveHealth(NewHealthHandler(nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("got=%d %q", rec.Code, rec.Body.String())
	}
}

func TestHealthCheckReportsFailingProbe(t *testing.T) {
	rec := serveHealth(NewHealthHandler(map[string]Probe{
		"db":    func(context.Context) error { return nil },
		"cache": func(context.Context) error { return errors.New("connection refused") },
	}))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status: got=%d", rec.Code)
	}
	var body struct {
		Checks map[string]string `json:"checks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Checks["db"] != "ok" || body.Checks["cache"] != "connection refused" {
		t.Fatalf("checks: %+v", body.Checks)
	}
}
