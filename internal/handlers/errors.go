package handlers

import (
	"errors"
	"net/http"

	"linkbio/internal/services"

	"github.com/gin-gonic/gin"
)

const internalErrorMessage = "Internal server error"

// respondError writes the {"error": ...} body for err. Anything that is not
// one of the client-facing service errors is logged under op and reported
// with a generic message.
func (h *Handler) respondError(c *gin.Context, op string, err error) {
	var (
		validation    *services.ValidationError
		notFound      *services.NotFoundError
		authorization *services.AuthorizationError
	)
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case errors.As(err, &authorization):
		c.JSON(http.StatusForbidden, gin.H{"error": authorization.Error()})
	default:
		h.logger.Error("Request failed", "op", op, "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": internalErrorMessage})
	}
}
