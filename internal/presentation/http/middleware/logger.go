package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader is echoed back on every response so the front end can
// correlate retries with server logs.
const RequestIDHeader = "X-Request-ID"

// LoggerMiddleware tags each request with an ID and logs method, path,
// status, latency and source IP. Health probes are not logged; the POS
// front end polls them constantly.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		start := time.Now()

		c.Next()

		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path += "?" + raw
		}

		log.Printf("req=%s %s %s status=%d latency=%v ip=%s",
			requestID[:8],
			c.Request.Method,
			path,
			c.Writer.Status(),
			time.Since(start),
			c.ClientIP(),
		)

		for _, e := range c.Errors {
			log.Printf("req=%s error: %v", requestID[:8], e.Err)
		}
	}
}
