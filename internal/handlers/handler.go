package handlers

import (
	"log/slog"

	"linkbio/internal/config"
	"linkbio/internal/metrics"
	"linkbio/internal/repository"
	"linkbio/internal/services"
)

type Handler struct {
	cfg              config.Config
	logger           *slog.Logger
	store            *repository.Store
	ingestService    *services.IngestService
	analyticsService *services.AnalyticsService
	pageService      *services.PageService
	auditService     *services.AuditService
	qrService        *services.QRService
	metrics          *metrics.Metrics
}

func NewHandler(
	cfg config.Config,
	logger *slog.Logger,
	store *repository.Store,
	ingestService *services.IngestService,
	analyticsService *services.AnalyticsService,
	pageService *services.PageService,
	auditService *services.AuditService,
	qrService *services.QRService,
	m *metrics.Metrics,
) *Handler {
	return &Handler{
		cfg:              cfg,
		logger:           logger,
		store:            store,
		ingestService:    ingestService,
		analyticsService: analyticsService,
		pageService:      pageService,
		auditService:     auditService,
		qrService:        qrService,
		metrics:          m,
	}
}
