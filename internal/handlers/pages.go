package handlers

import (
	"net/http"

	"linkbio/internal/services"

	"github.com/gin-gonic/gin"
)

type CreatePageRequest struct {
	Slug     string `json:"slug,omitempty"`
	Title    string `json:"title"`
	Timezone string `json:"timezone,omitempty"`
}

type UpdatePageRequest struct {
	Title    *string `json:"title,omitempty"`
	IsPublic *bool   `json:"is_public,omitempty"`
	Status   *string `json:"status,omitempty"`
	Timezone *string `json:"timezone,omitempty"`
}

type CreateLinkRequest struct {
	Title    string `json:"title" binding:"required"`
	URL      string `json:"url" binding:"required"`
	Position int    `json:"position"`
}

func (h *Handler) CreatePage(c *gin.Context) {
	var req CreatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.pageService.CreatePage(c.Request.Context(), services.CreatePageDTO{
		UserID:    currentUserID(c),
		Slug:      req.Slug,
		Title:     req.Title,
		Timezone:  req.Timezone,
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		h.respondError(c, "create_page", err)
		return
	}

	c.JSON(http.StatusCreated, page)
}

func (h *Handler) UpdatePage(c *gin.Context) {
	var req UpdatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.pageService.UpdatePage(c.Request.Context(), currentUserID(c), c.Param("page_id"), services.UpdatePageDTO{
		Title:     req.Title,
		IsPublic:  req.IsPublic,
		Status:    req.Status,
		Timezone:  req.Timezone,
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		h.respondError(c, "update_page", err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *Handler) AddLink(c *gin.Context) {
	var req CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	link, err := h.pageService.AddLink(c.Request.Context(), currentUserID(c), c.Param("page_id"), services.CreateLinkDTO{
		Title:     req.Title,
		URL:       req.URL,
		Position:  req.Position,
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		h.respondError(c, "create_link", err)
		return
	}

	c.JSON(http.StatusCreated, link)
}

func (h *Handler) ListLinks(c *gin.Context) {
	links, err := h.pageService.ListLinks(c.Request.Context(), currentUserID(c), c.Param("page_id"))
	if err != nil {
		h.respondError(c, "list_links", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"links": links})
}
