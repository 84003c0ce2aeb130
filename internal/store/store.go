// Package store is the data access layer. It issues typed gorm calls against the schema and
// reports constraint failures as *ConstraintViolation and missing rows as ErrNotFound.
package store

import (
	"gorm.io/gorm"
)

// Store wraps a gorm connection
type Store struct {
	db *gorm.DB
}

// New returns a Store backed by db
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying connection for tooling such as migrations and seeding
func (s *Store) DB() *gorm.DB {
	return s.db
}
