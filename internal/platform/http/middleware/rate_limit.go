package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"account_backend/internal/shared/ratelimiter"
)

// RateLimit rejects requests with 429 once the client IP exceeds the limiter's budget.
func RateLimit(limiter ratelimiter.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			Logger(c.Request.Context()).Warn("rate limit exceeded", "remote_addr", c.ClientIP(), "path", c.FullPath())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
