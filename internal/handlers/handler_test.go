package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"linkbio/internal/config"
	"linkbio/internal/metrics"
	"linkbio/internal/models"
	"linkbio/internal/repository"
	"linkbio/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	h     *Handler
	r     *gin.Engine
	store *repository.Store
	owner *models.User
	page  *models.Page
	link  *models.Link
}

func setupTestHandler(t *testing.T) (*Handler, *repository.Store) {
	t.Helper()
	cfg := config.Config{
		DatabaseURL:      "sqlite://:memory:",
		SessionSecret:    "test-secret-12345678901234567890123456789012",
		CDNIPHeader:      "CF-Connecting-IP",
		PublicBaseURL:    "https://links.example.com",
		SummaryMaxEvents: 1000,
	}
	db, err := repository.InitDB(cfg)
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	store := repository.NewStore(db)
	m := metrics.New()

	audit := services.NewAuditService(db, logger)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go audit.Start(ctx)

	// No database is loaded, so every lookup is Unknown
	geoIP := services.NewGeoIPService(cfg, logger)
	ingest := services.NewIngestService(store, geoIP, logger, m, cfg.MaskIP)
	analytics := services.NewAnalyticsService(store, logger, cfg.SummaryMaxEvents)
	pages := services.NewPageService(store, audit)
	qr := services.NewQRService()

	return NewHandler(cfg, logger, store, ingest, analytics, pages, audit, qr, m), store
}

func setupTestRouter(h *Handler, limiter services.RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := h.SetupRouter(limiter)
	// Stands in for the identity layer that owns the session cookie
	r.GET("/test/session/:id", func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		session := sessions.Default(c)
		session.Set(userIDKey, uint(id))
		session.Save()
		c.Status(http.StatusOK)
	})
	return r
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	h, store := setupTestHandler(t)
	ctx := context.Background()

	owner := &models.User{Username: "alice", Email: "alice@example.com", APIKey: "alice-key"}
	require.NoError(t, store.DB().Create(owner).Error)

	page := &models.Page{
		ID:       uuid.NewString(),
		UserID:   owner.ID,
		Slug:     "alice",
		Title:    "Alice",
		IsPublic: true,
		Status:   models.PageStatusPublished,
		Timezone: "UTC",
	}
	require.NoError(t, store.CreatePage(ctx, page))

	link := &models.Link{ID: uuid.NewString(), PageID: page.ID, Title: "Blog", URL: "https://example.com/blog"}
	require.NoError(t, store.CreateLink(ctx, link))

	return &testEnv{h: h, r: setupTestRouter(h, nil), store: store, owner: owner, page: page, link: link}
}

func doJSON(r http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
