package models

import (
	"time"
)

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *uint     `gorm:"index" json:"user_id"`
	Action    string    `gorm:"size:50;not null" json:"action"` // e.g., "CREATE_PAGE", "UPDATE_PAGE", "CREATE_LINK"
	EntityID  string    `gorm:"size:50" json:"entity_id"`
	Details   string    `gorm:"type:text" json:"details"` // JSON
	IPAddress string    `gorm:"size:45" json:"ip_address"`
	Timestamp time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"timestamp"`
}

// All lists every model managed by AutoMigrate.
func All() []interface{} {
	return []interface{}{&User{}, &Page{}, &Link{}, &AnalyticsEvent{}, &AuditLog{}}
}
