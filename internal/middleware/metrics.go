package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/spool-tracker/internal/service"
)

// Metrics records request duration and counts. Unrouted paths share one
// label so scanners probing random URLs cannot blow up cardinality.
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
			path = "unmatched"
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
