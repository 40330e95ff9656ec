package middleware

import (
	"net/http"
	"time"

	"telegram_chess/internal/metrics"
	"telegram_chess/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// RateLimit applies the shared Redis fixed-window limiter per client
// IP. Without Redis configured it is a no-op (fail-open).
func RateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ratelimit.Enabled() {
			c.Next()
			return
		}

		if !ratelimit.Allow(c.Request.Context(), "ip:"+c.ClientIP(), maxRequests, window) {
			metrics.RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		metrics.RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}
