package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"linkbio/internal/models"

	"gorm.io/gorm"
)

// ErrCounterNotUpdated is returned when the click increment half of an event
// write matched no link row. The whole write is rolled back.
var ErrCounterNotUpdated = errors.New("link click counter not updated")

// EventQuery selects the events of one page. From is inclusive, To is
// exclusive; zero values leave that side open.
type EventQuery struct {
	PageID string
	From   time.Time
	To     time.Time
	Limit  int
}

// CreateAnalyticsEvent inserts the event and, for link clicks carrying a
// link id, increments that link's counter in the same transaction. Either
// both writes commit or neither does.
func (s *Store) CreateAnalyticsEvent(ctx context.Context, event *models.AnalyticsEvent) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Link").Create(event).Error; err != nil {
			return fmt.Errorf("insert analytics event: %w", err)
		}

		if event.EventType != models.EventLinkClick || event.LinkID == nil {
			return nil
		}

		res := tx.Model(&models.Link{}).
			Where("id = ? AND page_id = ?", *event.LinkID, event.PageID).
			UpdateColumn("clicks", gorm.Expr("clicks + 1"))
		if res.Error != nil {
			return fmt.Errorf("increment link clicks: %w", res.Error)
		}
		if res.RowsAffected != 1 {
			return ErrCounterNotUpdated
		}
		return nil
	})
}

// ListEvents returns the page's events oldest first, with the clicked link
// joined in so callers can read its title.
func (s *Store) ListEvents(ctx context.Context, q EventQuery) ([]models.AnalyticsEvent, error) {
	tx := s.db.WithContext(ctx).Preload("Link").Where("page_id = ?", q.PageID)
	if !q.From.IsZero() {
		tx = tx.Where("timestamp >= ?", q.From.UTC())
	}
	if !q.To.IsZero() {
		tx = tx.Where("timestamp < ?", q.To.UTC())
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var events []models.AnalyticsEvent
	if err := tx.Order("timestamp asc").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list analytics events: %w", err)
	}
	return events, nil
}

// CountEvents is used by tests and health checks; it never feeds the summary.
func (s *Store) CountEvents(ctx context.Context, pageID string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.AnalyticsEvent{}).Where("page_id = ?", pageID).Count(&n).Error
	return n, err
}
