package models

import (
	"time"
)

const (
	PageStatusDraft     = "draft"
	PageStatusPublished = "published"
	PageStatusArchived  = "archived"
)

type Page struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Slug      string    `gorm:"unique;not null;size:64" json:"slug"`
	Title     string    `gorm:"size:255" json:"title"`
	IsPublic  bool      `gorm:"not null;default:false" json:"is_public"`
	Status    string    `gorm:"size:20;not null;default:'draft';index" json:"status"`
	Timezone  string    `gorm:"size:64;not null;default:'UTC'" json:"timezone"` // IANA name used for reporting windows
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Links []Link `gorm:"foreignKey:PageID;constraint:OnDelete:CASCADE" json:"links,omitempty"`
}

func (Page) TableName() string {
	return "pages"
}

// Visible reports whether anonymous visitors may see the page and record
// events against it.
func (p Page) Visible() bool {
	return p.IsPublic && p.Status == PageStatusPublished
}

// ValidPageStatus reports whether s is a known page status.
func ValidPageStatus(s string) bool {
	switch s {
	case PageStatusDraft, PageStatusPublished, PageStatusArchived:
		return true
	}
	return false
}
