package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"linkbio/internal/models"
	"linkbio/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPageService(t *testing.T) (*PageService, *repository.Store, *models.User) {
	t.Helper()
	db := setupTestDB(t)
	store := repository.NewStore(db)
	audit := NewAuditService(db, slog.Default())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go audit.Start(ctx)
	return NewPageService(store, audit), store, seedUser(t, db, "alice")
}

func TestPageService_CreatePage(t *testing.T) {
	ctx := context.Background()

	t.Run("Generated Slug", func(t *testing.T) {
		service, _, user := setupPageService(t)
		page, err := service.CreatePage(ctx, CreatePageDTO{UserID: user.ID, Title: "Alice"})
		require.NoError(t, err)
		assert.Len(t, page.Slug, 8)
		assert.Equal(t, models.PageStatusDraft, page.Status)
		assert.Equal(t, "UTC", page.Timezone)
		assert.False(t, page.Visible())
	})

	t.Run("Generated Slug Collision", func(t *testing.T) {
		service, _, user := setupPageService(t)
		_, err := service.CreatePage(ctx, CreatePageDTO{UserID: user.ID, Slug: "taken"})
		require.NoError(t, err)

		slugs := []string{"taken", "fresh"}
		service.slugGenerator = func(int) string {
			s := slugs[0]
			slugs = slugs[1:]
			return s
		}
		page, err := service.CreatePage(ctx, CreatePageDTO{UserID: user.ID})
		require.NoError(t, err)
		assert.Equal(t, "fresh", page.Slug)
	})

	t.Run("Custom Slug", func(t *testing.T) {
		service, store, user := setupPageService(t)
		page, err := service.CreatePage(ctx, CreatePageDTO{UserID: user.ID, Slug: " Alice-Links ", Timezone: "Europe/Berlin"})
		require.NoError(t, err)
		assert.Equal(t, "alice-links", page.Slug)

		saved, err := store.FindPageBySlug(ctx, "alice-links")
		require.NoError(t, err)
		assert.Equal(t, "Europe/Berlin", saved.Timezone)

		_, err = service.CreatePage(ctx, CreatePageDTO{UserID: user.ID, Slug: "alice-links"})
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "slug already taken", ve.Message)
	})

	t.Run("Invalid Input", func(t *testing.T) {
		service, _, user := setupPageService(t)
		var ve *ValidationError

		_, err := service.CreatePage(ctx, CreatePageDTO{UserID: user.ID, Slug: "no spaces"})
		assert.ErrorAs(t, err, &ve)

		_, err = service.CreatePage(ctx, CreatePageDTO{UserID: user.ID, Timezone: "Mars/Olympus"})
		assert.ErrorAs(t, err, &ve)
	})
}

func TestPageService_UpdatePage(t *testing.T) {
	ctx := context.Background()
	service, store, user := setupPageService(t)
	page, err := service.CreatePage(ctx, CreatePageDTO{UserID: user.ID, Slug: "alice"})
	require.NoError(t, err)

	published := models.PageStatusPublished
	public := true
	title := "Alice's links"
	updated, err := service.UpdatePage(ctx, user.ID, page.ID, UpdatePageDTO{Status: &published, IsPublic: &public, Title: &title})
	require.NoError(t, err)
	assert.True(t, updated.Visible())
	assert.Equal(t, title, updated.Title)

	// false must be written, not skipped
	private := false
	updated, err = service.UpdatePage(ctx, user.ID, page.ID, UpdatePageDTO{IsPublic: &private})
	require.NoError(t, err)
	assert.False(t, updated.IsPublic)

	var ve *ValidationError
	bogus := "deleted"
	_, err = service.UpdatePage(ctx, user.ID, page.ID, UpdatePageDTO{Status: &bogus})
	assert.ErrorAs(t, err, &ve)

	_, err = service.UpdatePage(ctx, user.ID, page.ID, UpdatePageDTO{})
	assert.ErrorAs(t, err, &ve)

	var ae *AuthorizationError
	_, err = service.UpdatePage(ctx, user.ID+100, page.ID, UpdatePageDTO{Title: &title})
	assert.ErrorAs(t, err, &ae)

	var nf *NotFoundError
	_, err = service.UpdatePage(ctx, user.ID, "missing", UpdatePageDTO{Title: &title})
	assert.ErrorAs(t, err, &nf)

	assert.Eventually(t, func() bool {
		var n int64
		store.DB().Model(&models.AuditLog{}).Where("action = ?", "UPDATE_PAGE").Count(&n)
		return n == 2
	}, time.Second, 10*time.Millisecond)
}

func TestPageService_Links(t *testing.T) {
	ctx := context.Background()
	service, _, user := setupPageService(t)
	page, err := service.CreatePage(ctx, CreatePageDTO{UserID: user.ID, Slug: "alice"})
	require.NoError(t, err)

	_, err = service.AddLink(ctx, user.ID, page.ID, CreateLinkDTO{Title: "Second", URL: "https://example.com/2", Position: 2})
	require.NoError(t, err)
	first, err := service.AddLink(ctx, user.ID, page.ID, CreateLinkDTO{Title: "First", URL: "http://example.com/1", Position: 1})
	require.NoError(t, err)
	assert.Equal(t, page.ID, first.PageID)

	links, err := service.ListLinks(ctx, user.ID, page.ID)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "First", links[0].Title)
	assert.Equal(t, int64(0), links[0].Clicks)

	var ve *ValidationError
	for _, raw := range []string{"", "example.com", "ftp://example.com/file", "javascript:alert(1)"} {
		_, err = service.AddLink(ctx, user.ID, page.ID, CreateLinkDTO{Title: "Bad", URL: raw})
		assert.ErrorAs(t, err, &ve, raw)
	}

	var ae *AuthorizationError
	_, err = service.ListLinks(ctx, user.ID+1, page.ID)
	assert.ErrorAs(t, err, &ae)
}

func TestPageService_PublicPage(t *testing.T) {
	ctx := context.Background()
	service, store, user := setupPageService(t)
	draft, err := service.CreatePage(ctx, CreatePageDTO{UserID: user.ID, Slug: "draft"})
	require.NoError(t, err)
	live := seedPublishedPage(t, store, user.ID, "live")

	page, err := service.PublicPage(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, live.ID, page.ID)

	var nf *NotFoundError
	_, err = service.PublicPage(ctx, draft.Slug)
	assert.ErrorAs(t, err, &nf)
	_, err = service.PublicPage(ctx, "missing")
	assert.ErrorAs(t, err, &nf)
}
