package models

import (
	"time"
)

type Link struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	PageID    string    `gorm:"not null;size:36;index" json:"page_id"`
	Title     string    `gorm:"size:255" json:"title"`
	URL       string    `gorm:"not null;type:text" json:"url"`
	Position  int       `gorm:"default:0" json:"position"`
	Clicks    int64     `gorm:"not null;default:0" json:"clicks"` // only ever changed by the event write transaction
	CreatedAt time.Time `json:"created_at"`
}

func (Link) TableName() string {
	return "links"
}
