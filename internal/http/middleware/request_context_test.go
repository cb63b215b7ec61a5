package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/pianostudio-backend/internal/platform/ctxutil"
)

func serveWithRequestContext(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, *ctxutil.Request) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestContext())
	var seen *ctxutil.Request
	r.GET("/x", func(c *gin.Context) {
		seen = ctxutil.RequestFrom(c.Request.Context())
		c.Status(http.StatusNoContent)
	})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec, seen
}

func TestRequestContextKeepsCallerRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, "req-123")
	rec, seen := serveWithRequestContext(t, req)

	if got := rec.Header().Get(HeaderRequestID); got != "req-123" {
		t.Fatalf("request id header: got=%q", got)
	}
	if seen == nil || seen.ID != "req-123" || seen.TraceID == "" {
		t.Fatalf("request: %+v", seen)
	}
	if rec.Header().Get(HeaderTraceID) != seen.TraceID {
		t.Fatalf("trace header %q != %q", rec.Header().Get(HeaderTraceID), seen.TraceID)
	}
}

func TestRequestContextGeneratesIDs(t *testing.T) {
	rec, seen := serveWithRequestContext(t, httptest.NewRequest(http.MethodGet, "/x", nil))
	if seen == nil || seen.ID == "" || seen.TraceID == "" {
		t.Fatalf("expected generated ids, got=%+v", seen)
	}
	if seen.Caller != nil {
		t.Fatalf("public request should carry no caller")
	}
	if rec.Header().Get(HeaderRequestID) != seen.ID {
		t.Fatalf("request id not echoed")
	}
}
