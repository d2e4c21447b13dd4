package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/moodwatch/moodwatch-backend/internal/observability"
)

// unmeteredRoutes are polled by infrastructure and would drown the API series.
var unmeteredRoutes = map[string]bool{
	"/metrics":     true,
	"/healthcheck": true,
	"/readyz":      true,
}

// Metrics records request count, latency and in-flight gauge per route
// template. Unmatched paths share the "unmatched" label.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		route := c.FullPath()
		if unmeteredRoutes[route] {
			c.Next()
			return
		}
		start := time.Now()
		m.ApiInflightInc()
		c.Next()
		m.ApiInflightDec()

		if route == "" {
			route = "unmatched"
		}
		m.ObserveAPI(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
