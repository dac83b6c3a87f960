package repository

import (
	"context"
	"errors"

	"linkbio/internal/models"
)

func (s *Store) FindPage(ctx context.Context, id string) (*models.Page, error) {
	var page models.Page
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&page).Error; err != nil {
		return nil, notFound(err)
	}
	return &page, nil
}

func (s *Store) FindPageBySlug(ctx context.Context, slug string) (*models.Page, error) {
	var page models.Page
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&page).Error; err != nil {
		return nil, notFound(err)
	}
	return &page, nil
}

func (s *Store) SlugExists(ctx context.Context, slug string) (bool, error) {
	_, err := s.FindPageBySlug(ctx, slug)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) CreatePage(ctx context.Context, page *models.Page) error {
	return s.db.WithContext(ctx).Create(page).Error
}

// UpdatePage writes the given columns only; a map keeps false and empty
// values from being skipped.
func (s *Store) UpdatePage(ctx context.Context, id string, fields map[string]interface{}) error {
	res := s.db.WithContext(ctx).Model(&models.Page{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) FindLink(ctx context.Context, id string) (*models.Link, error) {
	var link models.Link
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&link).Error; err != nil {
		return nil, notFound(err)
	}
	return &link, nil
}

func (s *Store) CreateLink(ctx context.Context, link *models.Link) error {
	return s.db.WithContext(ctx).Create(link).Error
}

func (s *Store) ListLinks(ctx context.Context, pageID string) ([]models.Link, error) {
	var links []models.Link
	err := s.db.WithContext(ctx).Where("page_id = ?", pageID).Order("position asc, created_at asc").Find(&links).Error
	return links, err
}

func (s *Store) FindUserByAPIKey(ctx context.Context, apiKey string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("api_key = ?", apiKey).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *Store) UpdateAPIKey(ctx context.Context, userID uint, apiKey string) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("api_key", apiKey)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
