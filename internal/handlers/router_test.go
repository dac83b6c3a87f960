package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRouter_Health(t *testing.T) {
	env := setupTestEnv(t)

	w := doJSON(env.r, http.MethodGet, "/health", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestRouter_Metrics(t *testing.T) {
	env := setupTestEnv(t)
	doJSON(env.r, http.MethodPost, "/api/track", map[string]string{"pageId": env.page.ID, "eventType": "page_view"}, nil)

	w := doJSON(env.r, http.MethodGet, "/metrics", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "linkbio_events_ingested_total")
}

func TestRouter_RecoversPanics(t *testing.T) {
	env := setupTestEnv(t)
	env.r.GET("/boom", func(*gin.Context) { panic("boom") })

	w := doJSON(env.r, http.MethodGet, "/boom", nil, nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", decode(t, w)["error"])
}
