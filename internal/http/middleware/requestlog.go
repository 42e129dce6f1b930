package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/fieldbook/internal/metrics"
)

// RequestLog logs each request once it completes and records its latency
// under the matched route pattern. Unmatched paths share one label.
func RequestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)
		metrics.ObserveRequest(c.Request.Method, route, status, elapsed)

		var ev *zerolog.Event
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		default:
			ev = log.Debug()
		}
		ev = ev.Str("method", c.Request.Method).
			Str("route", route).
			Str("status", strconv.Itoa(status)).
			Dur("latency", elapsed)
		if user, ok := GetCurrentUser(c); ok {
			ev = ev.Int("user_id", user.ID)
		}
		ev.Msg("request")
	}
}
