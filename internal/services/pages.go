package services

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"strings"
	"time"

	"linkbio/internal/models"
	"linkbio/internal/repository"
	"linkbio/pkg/utils"

	"github.com/google/uuid"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{1,63}$`)

type CreatePageDTO struct {
	UserID    uint
	Slug      string
	Title     string
	Timezone  string
	IPAddress string // For Audit Log
}

// UpdatePageDTO carries only the fields being changed.
type UpdatePageDTO struct {
	Title     *string
	IsPublic  *bool
	Status    *string
	Timezone  *string
	IPAddress string
}

type CreateLinkDTO struct {
	Title     string
	URL       string
	Position  int
	IPAddress string
}

// PageService is the owner-facing surface for pages and links.
type PageService struct {
	store         *repository.Store
	auditService  *AuditService
	slugGenerator func(int) string
}

func NewPageService(store *repository.Store, auditService *AuditService) *PageService {
	return &PageService{
		store:         store,
		auditService:  auditService,
		slugGenerator: utils.GenerateSlug,
	}
}

func (s *PageService) CreatePage(ctx context.Context, dto CreatePageDTO) (*models.Page, error) {
	// 1. Determine Slug
	var slug string
	if dto.Slug != "" {
		slug = strings.ToLower(strings.TrimSpace(dto.Slug))
		if !slugPattern.MatchString(slug) {
			return nil, invalid("slug must be 2-64 characters of a-z, 0-9, '-' or '_'")
		}
		taken, err := s.store.SlugExists(ctx, slug)
		if err != nil {
			return nil, &PersistenceError{Op: "check slug", Err: err}
		}
		if taken {
			return nil, invalid("slug already taken")
		}
	} else {
		for {
			slug = s.slugGenerator(8)
			taken, err := s.store.SlugExists(ctx, slug)
			if err != nil {
				return nil, &PersistenceError{Op: "check slug", Err: err}
			}
			if !taken {
				break
			}
		}
	}

	// 2. Prepare Data
	tz := strings.TrimSpace(dto.Timezone)
	if tz == "" {
		tz = "UTC"
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return nil, invalid("unknown timezone %q", tz)
	}

	page := models.Page{
		ID:       uuid.NewString(),
		UserID:   dto.UserID,
		Slug:     slug,
		Title:    dto.Title,
		Status:   models.PageStatusDraft,
		Timezone: tz,
	}
	if err := s.store.CreatePage(ctx, &page); err != nil {
		return nil, &PersistenceError{Op: "create page", Err: err}
	}

	s.auditService.LogAction(&dto.UserID, "CREATE_PAGE", page.ID, map[string]interface{}{
		"slug": page.Slug,
	}, dto.IPAddress)

	return &page, nil
}

func (s *PageService) UpdatePage(ctx context.Context, userID uint, pageID string, dto UpdatePageDTO) (*models.Page, error) {
	if _, err := s.ownedPage(ctx, userID, pageID); err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if dto.Title != nil {
		fields["title"] = *dto.Title
	}
	if dto.IsPublic != nil {
		fields["is_public"] = *dto.IsPublic
	}
	if dto.Status != nil {
		if !models.ValidPageStatus(*dto.Status) {
			return nil, invalid("invalid status %q", *dto.Status)
		}
		fields["status"] = *dto.Status
	}
	if dto.Timezone != nil {
		if _, err := time.LoadLocation(*dto.Timezone); err != nil || *dto.Timezone == "" {
			return nil, invalid("unknown timezone %q", *dto.Timezone)
		}
		fields["timezone"] = *dto.Timezone
	}
	if len(fields) == 0 {
		return nil, invalid("nothing to update")
	}

	if err := s.store.UpdatePage(ctx, pageID, fields); err != nil {
		return nil, &PersistenceError{Op: "update page", Err: err}
	}

	s.auditService.LogAction(&userID, "UPDATE_PAGE", pageID, fields, dto.IPAddress)

	page, err := s.store.FindPage(ctx, pageID)
	if err != nil {
		return nil, &PersistenceError{Op: "reload page", Err: err}
	}
	return page, nil
}

func (s *PageService) AddLink(ctx context.Context, userID uint, pageID string, dto CreateLinkDTO) (*models.Link, error) {
	if _, err := s.ownedPage(ctx, userID, pageID); err != nil {
		return nil, err
	}

	u, err := url.ParseRequestURI(dto.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, invalid("url must be an absolute http(s) URL")
	}

	link := models.Link{
		ID:       uuid.NewString(),
		PageID:   pageID,
		Title:    strings.TrimSpace(dto.Title),
		URL:      dto.URL,
		Position: dto.Position,
	}
	if err := s.store.CreateLink(ctx, &link); err != nil {
		return nil, &PersistenceError{Op: "create link", Err: err}
	}

	s.auditService.LogAction(&userID, "CREATE_LINK", link.ID, map[string]interface{}{
		"page_id": pageID,
		"url":     dto.URL,
	}, dto.IPAddress)

	return &link, nil
}

func (s *PageService) ListLinks(ctx context.Context, userID uint, pageID string) ([]models.Link, error) {
	if _, err := s.ownedPage(ctx, userID, pageID); err != nil {
		return nil, err
	}
	links, err := s.store.ListLinks(ctx, pageID)
	if err != nil {
		return nil, &PersistenceError{Op: "list links", Err: err}
	}
	return links, nil
}

// PublicPage resolves a slug for anonymous visitors; hidden pages are
// reported as not found.
func (s *PageService) PublicPage(ctx context.Context, slug string) (*models.Page, error) {
	page, err := s.store.FindPageBySlug(ctx, slug)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Resource: "page"}
	}
	if err != nil {
		return nil, &PersistenceError{Op: "find page", Err: err}
	}
	if !page.Visible() {
		return nil, &NotFoundError{Resource: "page"}
	}
	return page, nil
}

func (s *PageService) ownedPage(ctx context.Context, userID uint, pageID string) (*models.Page, error) {
	page, err := s.store.FindPage(ctx, pageID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Resource: "page"}
	}
	if err != nil {
		return nil, &PersistenceError{Op: "find page", Err: err}
	}
	if page.UserID != userID {
		return nil, &AuthorizationError{Message: "page belongs to another user"}
	}
	return page, nil
}
