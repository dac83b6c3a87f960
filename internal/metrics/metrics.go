package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"linkbio/internal/models"
)

// Metrics holds the service's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	EventsIngested *prometheus.CounterVec
	IngestDuration *prometheus.HistogramVec
	RateLimited    prometheus.Counter

	registry *prometheus.Registry
}

// New creates the collectors on a private registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		EventsIngested: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linkbio_events_ingested_total",
				Help: "Analytics events received by the ingestion endpoint",
			},
			[]string{"event_type", "outcome"},
		),
		IngestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "linkbio_ingest_duration_seconds",
				Help:    "Time spent validating and persisting one event",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		RateLimited: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "linkbio_rate_limited_total",
				Help: "Requests rejected by the rate limiter",
			},
		),
		registry: registry,
	}

	registry.MustRegister(
		m.EventsIngested,
		m.IngestDuration,
		m.RateLimited,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveIngest(eventType, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	// Unknown types are folded together to keep label cardinality bounded.
	if !models.ValidEventType(eventType) {
		eventType = "invalid"
	}
	m.EventsIngested.WithLabelValues(eventType, outcome).Inc()
	m.IngestDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

func (m *Metrics) IncRateLimited() {
	if m == nil {
		return
	}
	m.RateLimited.Inc()
}
