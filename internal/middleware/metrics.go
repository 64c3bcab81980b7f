package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/plon/illinispots-sub000/internal/service"
)

// Metrics records duration and status for every request. Routes are labeled
// by their registered pattern so path parameters do not explode cardinality;
// unmatched requests fall back to the raw path.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	if metricsSvc == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
