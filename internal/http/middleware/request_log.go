package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/pianostudio-backend/internal/platform/ctxutil"
	"github.com/yungbote/pianostudio-backend/internal/platform/logger"
)

// RequestLogger writes one line per request once the handler chain returns.
// 5xx log at error level and 4xx at warn.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	log = log.With("component", "http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []interface{}{
			"method", c.Request.Method,
			"route", routeLabel(c),
			"status", status,
			"bytes", c.Writer.Size(),
			"latency", time.Since(start),
		}
		if r := ctxutil.RequestFrom(c.Request.Context()); r != nil {
			fields = append(fields, "request_id", r.ID, "trace_id", r.TraceID)
			if r.Caller != nil {
				fields = append(fields, "caller", r.Caller.ID.String(), "owner", r.Caller.IsOwner)
			}
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		logAt := log.Info
		if status >= 500 {
			logAt = log.Error
		} else if status >= 400 {
			logAt = log.Warn
		}
		logAt("request", fields...)
	}
}

// routeLabel prefers the matched pattern so ids in the path don't explode
// cardinality.
func routeLabel(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return "unmatched"
}
