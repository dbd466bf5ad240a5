package middleware

import (
	"strconv"
	"time"

	"bankrec/internal/metrics"

	"github.com/gin-gonic/gin"
)

/**
 * HTTP request instrumentation middleware
 * @description
 * - Counts every request labeled by method/endpoint/status_code
 * - Records request processing time labeled by method/endpoint
 * - The /metrics endpoint itself is excluded from instrumentation
 */
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()

		// Use the route template when available so path parameters
		// don't explode label cardinality
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = c.Request.URL.Path
		}

		method := c.Request.Method
		statusCode := strconv.Itoa(c.Writer.Status())

		metrics.RequestCount.WithLabelValues(method, endpoint, statusCode).Inc()
		metrics.RequestLatency.WithLabelValues(method, endpoint).Observe(duration)
	}
}
