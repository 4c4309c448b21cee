// File: internal/middleware/metrics.go
package middleware

import (
	"time"

	"blog_backend/internal/platform/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records request count and latency per matched route.
// Unmatched requests share the "unmatched" route label to bound cardinality.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
