// Package repository provides the data-access contract over the ledger
// schema for the application layer: reference lookups, append-only ledger
// writes, entity creation and temporal upserts. No repository exposes an
// update or delete surface for ledger rows; corrections are new rows.
package repository

import (
	"database/sql"

	"github.com/rs/zerolog"
)

// BaseRepository provides common database operations
type BaseRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewBase creates a new base repository
func NewBase(db *sql.DB, log zerolog.Logger) *BaseRepository {
	return &BaseRepository{
		db:  db,
		log: log,
	}
}

// DB returns the database connection
func (r *BaseRepository) DB() *sql.DB {
	return r.db
}
