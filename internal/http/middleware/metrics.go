package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/pianostudio-backend/internal/observability"
)

// Metrics records request count, latency and in-flight requests. Scrapes of
// metricsPath are not counted.
func Metrics(m *observability.Metrics, metricsPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil || c.Request.URL.Path == metricsPath {
			c.Next()
			return
		}
		m.ApiInflightInc()
		start := time.Now()
		defer func() {
			m.ApiInflightDec()
			m.ObserveAPI(c.Request.Method, routeLabel(c), c.Writer.Status(), time.Since(start))
		}()
		c.Next()
	}
}
