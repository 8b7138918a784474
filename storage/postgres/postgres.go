// Package postgres implements the storage contracts on top of sqlx.
package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/kinobot/storage"
)

// New builds the full store backed by the given database handle.
func New(db *sqlx.DB) storage.Store {
	return storage.Store{
		Users:    &UserRepo{db: db},
		Channels: &ChannelRepo{db: db},
		Movies:   &MovieRepo{db: db},
	}
}
