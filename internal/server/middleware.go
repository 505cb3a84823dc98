package server

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// apiKeyHeader is the header clients authenticate with.
const apiKeyHeader = "X-API-Key"

// requestLogger logs each request and records the Prometheus counters.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start)
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, path).Observe(duration.Seconds())

		slog.Info("request completed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", duration,
			"client_ip", c.ClientIP())
	}
}

// apiKeyAuth rejects requests missing a configured API key. Development
// mode skips validation entirely.
func apiKeyAuth(keys []string, development bool) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		allowed[key] = struct{}{}
	}

	return func(c *gin.Context) {
		if development {
			c.Next()
			return
		}

		key := c.GetHeader(apiKeyHeader)
		if key == "" {
			c.AbortWithStatusJSON(401, gin.H{"error": "API key required"})
			return
		}
		if _, ok := allowed[key]; !ok {
			c.AbortWithStatusJSON(401, gin.H{"error": "Invalid API key"})
			return
		}

		c.Next()
	}
}
