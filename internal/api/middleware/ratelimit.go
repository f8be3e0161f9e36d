package middleware

import (
	"net/http"
	"strconv"

	"jammanage-backend/pkg/ratelimit"
	"jammanage-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimit enforces per-client request budgets. Limiter errors fail open
// so a Redis outage does not take the API down with it.
func RateLimit(limiter ratelimit.RateLimiter, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := c.GetString("user_id")
		if clientID == "" {
			clientID = c.ClientIP()
		}

		allowed, retryAfter, err := limiter.Allow(clientID, c.Request.Method, c.FullPath())
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
			utils.ErrorResponse(c, http.StatusTooManyRequests, "Too many requests", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
