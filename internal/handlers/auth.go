package handlers

import (
	"errors"
	"net/http"

	"linkbio/internal/repository"
	"linkbio/pkg/utils"

	"github.com/gin-gonic/gin"
)

// GenerateNewAPIKey replaces the caller's API key; the old key stops working
// immediately.
func (h *Handler) GenerateNewAPIKey(c *gin.Context) {
	userID := currentUserID(c)

	newKey := utils.GenerateAPIKey()
	if err := h.store.UpdateAPIKey(c.Request.Context(), userID, newKey); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.respondError(c, "rotate_api_key", err)
		return
	}

	h.auditService.LogAction(&userID, "ROTATE_API_KEY", "", nil, c.ClientIP())

	c.JSON(http.StatusOK, gin.H{"api_key": newKey})
}
