package repository

import (
	"gorm.io/gorm"
)

// Store is the gorm-backed implementation of the page, link, event and user
// stores used by the services.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *gorm.DB {
	return s.db
}
