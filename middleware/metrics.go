package middleware

import (
	"time"

	"turnos/metrics"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware records count and latency per matched route template.
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start).Seconds())
	}
}
