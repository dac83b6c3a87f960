package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"linkbio/internal/metrics"
	"linkbio/internal/models"
	"linkbio/internal/repository"

	"github.com/google/uuid"
)

// EventStore is the persistence the ingestion path needs.
// CreateAnalyticsEvent must insert the event and apply the link click
// increment atomically.
type EventStore interface {
	FindPage(ctx context.Context, id string) (*models.Page, error)
	FindLink(ctx context.Context, id string) (*models.Link, error)
	CreateAnalyticsEvent(ctx context.Context, event *models.AnalyticsEvent) error
}

// TrackInput is one client-reported event plus the context the server
// observed for the request.
type TrackInput struct {
	PageID     string
	LinkID     string
	EventType  string
	Referrer   string
	ScreenSize string

	UserAgent string
	IPAddress string
}

type IngestService struct {
	store   EventStore
	geo     GeoLocator
	logger  *slog.Logger
	metrics *metrics.Metrics
	maskIP  bool
	now     func() time.Time
	newID   func() string
}

func NewIngestService(store EventStore, geo GeoLocator, logger *slog.Logger, m *metrics.Metrics, maskIP bool) *IngestService {
	return &IngestService{
		store:   store,
		geo:     geo,
		logger:  logger,
		metrics: m,
		maskIP:  maskIP,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
}

// Track validates, enriches and records one event and returns its id.
// Nothing is written unless every check passes. Each call creates a new
// event; there is no deduplication.
func (s *IngestService) Track(ctx context.Context, in TrackInput) (string, error) {
	start := time.Now()
	eventID, err := s.track(ctx, in)
	s.metrics.ObserveIngest(in.EventType, outcome(err), time.Since(start))
	return eventID, err
}

func (s *IngestService) track(ctx context.Context, in TrackInput) (string, error) {
	in.PageID = strings.TrimSpace(in.PageID)
	in.LinkID = strings.TrimSpace(in.LinkID)

	// 1. Field validation
	if in.PageID == "" || in.EventType == "" {
		return "", invalid("pageId and eventType are required")
	}
	if !models.ValidEventType(in.EventType) {
		return "", invalid("invalid eventType %q", in.EventType)
	}

	// 2-4. Server-side enrichment
	device := ClassifyDevice(in.UserAgent, in.ScreenSize)
	geo := s.geo.Lookup(in.IPAddress)

	// 5. Only published, public pages accept events
	page, err := s.store.FindPage(ctx, in.PageID)
	if errors.Is(err, repository.ErrNotFound) {
		return "", &NotFoundError{Resource: "page"}
	}
	if err != nil {
		return "", &PersistenceError{Op: "find page", Err: err}
	}
	if !page.Visible() {
		return "", &NotFoundError{Resource: "page"}
	}

	// 6. A clicked link must belong to the page. Link ids on other event
	// types are dropped so that only validated link clicks carry one.
	var linkID *string
	if in.EventType == models.EventLinkClick && in.LinkID != "" {
		link, err := s.store.FindLink(ctx, in.LinkID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return "", &PersistenceError{Op: "find link", Err: err}
		}
		if link == nil || link.PageID != page.ID {
			s.logger.Debug("Rejected link click", "op", "track_event", "page_id", page.ID, "link_id", in.LinkID)
			return "", invalid("link does not belong to page")
		}
		linkID = &link.ID
	}

	ip := in.IPAddress
	if s.maskIP {
		ip = MaskIP(ip)
	}

	event := &models.AnalyticsEvent{
		ID:        s.newID(),
		PageID:    page.ID,
		LinkID:    linkID,
		EventType: in.EventType,
		Timestamp: s.now(),
		UserAgent: in.UserAgent,
		Referrer:  in.Referrer,
		IPAddress: ip,
		Device:    device,
		Geo:       geo,
	}

	// 7. Single atomic write
	if err := s.store.CreateAnalyticsEvent(ctx, event); err != nil {
		return "", &PersistenceError{Op: "create analytics event", Err: err}
	}

	return event.ID, nil
}

func outcome(err error) string {
	var ve *ValidationError
	var nf *NotFoundError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &ve):
		return "invalid"
	case errors.As(err, &nf):
		return "not_found"
	default:
		return "error"
	}
}
