package services

import (
	"context"
	"testing"

	"linkbio/internal/config"
	"linkbio/internal/models"
	"linkbio/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repository.InitDB(config.Config{DatabaseURL: "sqlite://:memory:"})
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	user := &models.User{Username: name, Email: name + "@example.com", APIKey: uuid.NewString()}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedPublishedPage(t *testing.T, store *repository.Store, userID uint, slug string) *models.Page {
	t.Helper()
	page := &models.Page{
		ID:       uuid.NewString(),
		UserID:   userID,
		Slug:     slug,
		Title:    slug,
		IsPublic: true,
		Status:   models.PageStatusPublished,
		Timezone: "UTC",
	}
	require.NoError(t, store.CreatePage(context.Background(), page))
	return page
}
