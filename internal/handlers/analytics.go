package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PageAnalytics serves the owner's dashboard numbers for one page.
func (h *Handler) PageAnalytics(c *gin.Context) {
	report, err := h.analyticsService.PageReport(
		c.Request.Context(),
		currentUserID(c),
		c.Param("page_id"),
		c.Query("startDate"),
		c.Query("endDate"),
	)
	if err != nil {
		h.respondError(c, "page_summary", err)
		return
	}

	c.JSON(http.StatusOK, report)
}
