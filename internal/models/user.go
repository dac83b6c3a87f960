package models

import (
	"time"
)

// User mirrors the identity provider's account record. Credentials live with
// the provider; only the API key used for programmatic access is stored here.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"unique;not null;size:80" json:"username"`
	Email     string    `gorm:"unique;not null;size:120" json:"email"`
	APIKey    string    `gorm:"unique;index;size:36" json:"api_key"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	Pages     []Page    `gorm:"foreignKey:UserID" json:"pages,omitempty"`
}
