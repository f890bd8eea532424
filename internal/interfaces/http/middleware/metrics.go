package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/milo0914/ChemPatent-Pro/internal/infrastructure/monitoring/prometheus"
)

// Metrics records request count and latency by route template, so path
// parameters never become label values.
func Metrics(m *prometheus.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		prometheus.RecordHTTPRequest(m, c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

//Personal.AI order the ending
