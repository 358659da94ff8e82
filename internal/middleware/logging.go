package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/therealutkarshpriyadarshi/vidmarks/internal/logging"
	"github.com/therealutkarshpriyadarshi/vidmarks/internal/metrics"
)

// Logger middleware logs request details and records request metrics
func Logger(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)

		// Route template keeps metric cardinality bounded
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		logger.LogHTTPRequest(
			c.Request.Method,
			c.Request.URL.Path,
			c.ClientIP(),
			c.Writer.Status(),
			latency,
		)
		metrics.RecordHTTPRequest(c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status()), latency.Seconds())
	}
}
