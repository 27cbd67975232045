package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lamnguyen-dev/educenter-api/internal/service"
)

// Metrics captures per-request latency and counters. A nil service disables
// instrumentation without changing the middleware chain.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
