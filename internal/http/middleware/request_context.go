package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/pianostudio-backend/internal/platform/ctxutil"
)

const (
	HeaderRequestID = "X-Request-Id"
	HeaderTraceID   = "X-Trace-Id"
)

// RequestContext stamps every request with a request id and a trace id and
// echoes both back as response headers. A caller-supplied X-Request-Id is
// kept; the trace id comes from the active span when otelgin runs first.
func RequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		span := trace.SpanFromContext(ctx)

		req := &ctxutil.Request{
			ID:      headerOr(c, HeaderRequestID, uuid.NewString),
			TraceID: headerOr(c, HeaderTraceID, func() string { return spanTraceID(span) }),
		}
		if span.IsRecording() {
			span.SetAttributes(attribute.String("http.request_id", req.ID))
		}

		c.Request = c.Request.WithContext(ctxutil.WithRequest(ctx, req))
		h := c.Writer.Header()
		h.Set(HeaderRequestID, req.ID)
		h.Set(HeaderTraceID, req.TraceID)
		c.Next()
	}
}

func headerOr(c *gin.Context, name string, fallback func() string) string {
	if v := strings.TrimSpace(c.GetHeader(name)); v != "" {
		return v
	}
	return fallback()
}

func spanTraceID(span trace.Span) string {
	if sc := span.SpanContext(); sc.HasTraceID() {
		return sc.TraceID().String()
	}
	return uuid.NewString()
}
