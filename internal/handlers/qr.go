package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"linkbio/internal/services"

	"github.com/gin-gonic/gin"
)

// PageQRCode renders a QR code pointing at a public page. ?format=svg
// returns SVG instead of PNG.
func (h *Handler) PageQRCode(c *gin.Context) {
	page, err := h.pageService.PublicPage(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondError(c, "page_qr", err)
		return
	}

	size, _ := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(services.DefaultQRSize)))
	opts := services.QROptions{
		Content: strings.TrimRight(h.cfg.PublicBaseURL, "/") + "/" + page.Slug,
		Size:    size,
		FgColor: c.Query("fg"),
		BgColor: c.Query("bg"),
	}

	if c.Query("format") == "svg" {
		svg, err := h.qrService.GenerateQRCodeSVG(opts)
		if err != nil {
			h.respondError(c, "page_qr", err)
			return
		}
		c.Data(http.StatusOK, "image/svg+xml", []byte(svg))
		return
	}

	_, png, err := h.qrService.GenerateQRCode(opts)
	if err != nil {
		h.respondError(c, "page_qr", err)
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "image/png", png)
}
