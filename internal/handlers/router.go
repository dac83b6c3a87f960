package handlers

import (
	"net/http"

	"linkbio/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func (h *Handler) SetupRouter(rateLimiter services.RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		h.logger.Error("Panic while serving request", "op", "http", "path", c.Request.URL.Path, "panic", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": internalErrorMessage})
	}))

	store := cookie.NewStore([]byte(h.cfg.SessionSecret))
	r.Use(sessions.Sessions("linkbio_session", store))

	// Routes
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	if h.metrics != nil {
		r.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}

	// Public Routes
	track := r.Group("/api/track")
	if rateLimiter != nil {
		track.Use(h.RateLimitMiddleware(rateLimiter))
	}
	track.POST("", h.TrackEvent)

	r.GET("/p/:slug/qr", h.PageQRCode)

	// Protected Routes
	authorized := r.Group("/api/v1")
	authorized.Use(h.AuthRequired())
	{
		authorized.POST("/auth/apikey", h.GenerateNewAPIKey)
		authorized.POST("/pages", h.CreatePage)
		authorized.PATCH("/pages/:page_id", h.UpdatePage)
		authorized.GET("/pages/:page_id/links", h.ListLinks)
		authorized.POST("/pages/:page_id/links", h.AddLink)
		authorized.GET("/pages/:page_id/analytics", h.PageAnalytics)
	}

	return r
}
