package services

import (
	"context"
	"errors"
	"log/slog"
	"time"
	_ "time/tzdata"

	"linkbio/internal/models"
	"linkbio/internal/repository"
)

const dateLayout = "2006-01-02"

type AnalyticsReader interface {
	FindPage(ctx context.Context, id string) (*models.Page, error)
	ListEvents(ctx context.Context, q repository.EventQuery) ([]models.AnalyticsEvent, error)
}

// PageReport is what the dashboard receives for one page. Truncated is set
// when the window held more events than the service reads; the report then
// covers only the oldest ones.
type PageReport struct {
	PageID    string `json:"pageId"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
	Timezone  string `json:"timezone"`
	Truncated bool   `json:"truncated"`
	AnalyticsSummary
	Breakdown Breakdown   `json:"breakdown"`
	Daily     []DailyStat `json:"daily"`
}

type AnalyticsService struct {
	store     AnalyticsReader
	logger    *slog.Logger
	maxEvents int
}

func NewAnalyticsService(store AnalyticsReader, logger *slog.Logger, maxEvents int) *AnalyticsService {
	return &AnalyticsService{store: store, logger: logger, maxEvents: maxEvents}
}

// PageReport loads the owner's events for the window and summarizes them.
func (s *AnalyticsService) PageReport(ctx context.Context, userID uint, pageID, startDate, endDate string) (*PageReport, error) {
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

	loc := PageLocation(page)
	from, to, err := ReportWindow(startDate, endDate, loc)
	if err != nil {
		return nil, err
	}

	q := repository.EventQuery{PageID: page.ID, From: from, To: to}
	if s.maxEvents > 0 {
		// One extra row tells a full window from a truncated one
		q.Limit = s.maxEvents + 1
	}
	events, err := s.store.ListEvents(ctx, q)
	if err != nil {
		return nil, &PersistenceError{Op: "list analytics events", Err: err}
	}
	truncated := s.maxEvents > 0 && len(events) > s.maxEvents
	if truncated {
		events = events[:s.maxEvents]
		s.logger.Warn("Analytics window truncated", "op", "page_summary", "page_id", page.ID, "limit", s.maxEvents)
	}

	return &PageReport{
		PageID:           page.ID,
		StartDate:        startDate,
		EndDate:          endDate,
		Timezone:         loc.String(),
		Truncated:        truncated,
		AnalyticsSummary: Summarize(events),
		Breakdown:        Breakdowns(events),
		Daily:            DailySeries(events, loc),
	}, nil
}

// PageLocation returns the page's reporting timezone, UTC if unset or
// unknown.
func PageLocation(page *models.Page) *time.Location {
	if page == nil || page.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(page.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ReportWindow turns inclusive YYYY-MM-DD dates into a half-open instant
// range [from, to) covering whole days in loc. Either date may be empty.
func ReportWindow(startDate, endDate string, loc *time.Location) (from, to time.Time, err error) {
	if startDate != "" {
		day, perr := time.ParseInLocation(dateLayout, startDate, loc)
		if perr != nil {
			return time.Time{}, time.Time{}, invalid("startDate must be YYYY-MM-DD")
		}
		from = day
	}
	if endDate != "" {
		day, perr := time.ParseInLocation(dateLayout, endDate, loc)
		if perr != nil {
			return time.Time{}, time.Time{}, invalid("endDate must be YYYY-MM-DD")
		}
		to = day.AddDate(0, 0, 1)
	}
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		return time.Time{}, time.Time{}, invalid("endDate must not be before startDate")
	}
	return from, to, nil
}
