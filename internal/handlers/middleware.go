package handlers

import (
	"net/http"

	"linkbio/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const userIDKey = "user_id"

// AuthRequired accepts either the identity layer's session cookie or an
// X-API-Key header and stores the caller's id under "user_id".
func (h *Handler) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if uid, ok := session.Get(userIDKey).(uint); ok {
			c.Set(userIDKey, uid)
			c.Next()
			return
		}

		// Check for API Key if session is missing
		if apiKey := c.GetHeader("X-API-Key"); apiKey != "" {
			if u, err := h.store.FindUserByAPIKey(c.Request.Context(), apiKey); err == nil {
				c.Set(userIDKey, u.ID)
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
}

// RateLimitMiddleware keys the limiter on the same client address the
// ingestion path records. Limiter errors let the request through.
func (h *Handler) RateLimitMiddleware(limiter services.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := services.ClientIP(c.Request.Header, h.cfg.CDNIPHeader)
		allowed, err := limiter.Allow(c.Request.Context(), ip)
		if err != nil {
			h.logger.Warn("Rate limiter unavailable, allowing request", "op", "rate_limit", "error", err)
			c.Next()
			return
		}
		if !allowed {
			h.metrics.IncRateLimited()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please try again later.",
			})
			return
		}
		c.Next()
	}
}

func currentUserID(c *gin.Context) uint {
	return c.GetUint(userIDKey)
}
