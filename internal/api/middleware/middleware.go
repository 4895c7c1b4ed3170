package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"queuewise/internal/metrics"
	"queuewise/internal/trace"
)

// RequestID echoes the caller's X-Request-ID or generates one, and puts it in the
// request context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(trace.HeaderRequestID)
		if id == "" {
			id = trace.NewRequestID()
		}
		c.Header(trace.HeaderRequestID, id)
		c.Request = c.Request.WithContext(trace.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

func APIVersion(version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header(trace.HeaderAPIVersion, version)
		c.Next()
	}
}

// AccessLog writes one line per request and feeds the HTTP metrics.
func AccessLog(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		metrics.HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(latency.Seconds())

		entry := logger.WithContext(c.Request.Context()).WithFields(logrus.Fields{
			"request_id": trace.RequestID(c.Request.Context()),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"latency":    latency.String(),
		})
		switch {
		case status >= 500:
			entry.Error("request")
		case status >= 400:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}
