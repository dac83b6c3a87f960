package models

import (
	"time"
)

const (
	EventPageView   = "page_view"
	EventLinkClick  = "link_click"
	EventFormSubmit = "form_submit"
)

// ValidEventType reports whether t is one of the closed set of event types.
func ValidEventType(t string) bool {
	switch t {
	case EventPageView, EventLinkClick, EventFormSubmit:
		return true
	}
	return false
}

// DeviceInfo is derived from the user agent once, at ingestion.
type DeviceInfo struct {
	Type           string `gorm:"size:20" json:"type"`
	OS             string `gorm:"size:50" json:"os"`
	Browser        string `gorm:"size:50" json:"browser"`
	BrowserVersion string `gorm:"size:50" json:"browser_version,omitempty"`
	ScreenSize     string `gorm:"size:50" json:"screen_size"`
	Bot            bool   `gorm:"default:false" json:"bot"`
}

// GeoInfo is a best-effort location; Lat and Lng are nil when unknown.
type GeoInfo struct {
	Country string   `gorm:"size:100;default:'Unknown'" json:"country"`
	Region  string   `gorm:"size:100;default:'Unknown'" json:"region"`
	City    string   `gorm:"size:100;default:'Unknown'" json:"city"`
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
}

// AnalyticsEvent is append-only. Nothing updates or deletes rows once
// CreateAnalyticsEvent has committed them.
type AnalyticsEvent struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	PageID    string     `gorm:"not null;size:36;index:idx_events_page_time,priority:1" json:"page_id"`
	LinkID    *string    `gorm:"size:36;index" json:"link_id,omitempty"`
	EventType string     `gorm:"size:20;not null" json:"event_type"`
	Timestamp time.Time  `gorm:"not null;index:idx_events_page_time,priority:2" json:"timestamp"`
	UserAgent string     `gorm:"type:text" json:"user_agent,omitempty"`
	Referrer  string     `gorm:"type:text" json:"referrer,omitempty"`
	IPAddress string     `gorm:"size:45" json:"ip_address,omitempty"`
	Device    DeviceInfo `gorm:"embedded;embeddedPrefix:device_" json:"device"`
	Geo       GeoInfo    `gorm:"embedded;embeddedPrefix:geo_" json:"geo"`

	// Link is only populated by the read path.
	Link *Link `gorm:"foreignKey:LinkID;references:ID" json:"link,omitempty"`
}

func (AnalyticsEvent) TableName() string {
	return "analytics_events"
}
