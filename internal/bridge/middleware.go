package bridge

import (
	"fmt"
	"strings"
	"time"

	"github.com/cloudbrain/cbws/internal/logging"
	"github.com/gin-gonic/gin"
)

// Context keys the stream handler fills in for the request log.
const (
	logKeyExchange   = "exchange"
	logKeyRoutingKey = "routing_key"
	logKeySession    = "session"
	logKeyOutcome    = "outcome"
)

// loggingMiddleware logs one line per request. Websocket requests are logged
// when the session ends, so their latency is the session duration and the
// line carries the exchange, session ID and how the session ended.
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		var b strings.Builder
		fmt.Fprintf(&b, "%s %s %d %s client=%s", param.Method, param.Path, param.StatusCode,
			param.Latency.Round(time.Millisecond), param.ClientIP)

		for _, key := range []string{logKeyExchange, logKeyRoutingKey, logKeySession, logKeyOutcome} {
			if v, ok := param.Keys[key].(string); ok && v != "" {
				fmt.Fprintf(&b, " %s=%q", key, v)
			}
		}
		if param.ErrorMessage != "" {
			fmt.Fprintf(&b, " error=%q", strings.TrimSpace(param.ErrorMessage))
		}

		logging.Debug("%s", b.String())
		return ""
	})
}

// corsMiddleware provides CORS headers for the read-only endpoints
func (s *Server) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Accept, Content-Type")
		c.Header("Access-Control-Max-Age", "300")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
