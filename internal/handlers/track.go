package handlers

import (
	"net/http"

	"linkbio/internal/services"

	"github.com/gin-gonic/gin"
)

type TrackRequest struct {
	PageID     string `json:"pageId"`
	LinkID     string `json:"linkId,omitempty"`
	EventType  string `json:"eventType"`
	Referrer   string `json:"referrer,omitempty"`
	ScreenSize string `json:"screenSize,omitempty"`
}

// TrackEvent records one page view, link click or form submission sent by
// a visitor's browser.
func (h *Handler) TrackEvent(c *gin.Context) {
	var req TrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	eventID, err := h.ingestService.Track(c.Request.Context(), services.TrackInput{
		PageID:     req.PageID,
		LinkID:     req.LinkID,
		EventType:  req.EventType,
		Referrer:   req.Referrer,
		ScreenSize: req.ScreenSize,
		UserAgent:  c.Request.UserAgent(),
		IPAddress:  services.ClientIP(c.Request.Header, h.cfg.CDNIPHeader),
	})
	if err != nil {
		h.respondError(c, "track_event", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "eventId": eventID})
}
