// Package storage defines the persistent entities of the bot and the
// store contracts implemented by the postgres and httpapi drivers.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by lookups that match no record.
var ErrNotFound = errors.New("storage: not found")

// User is a bot user keyed by their Telegram identity.
type User struct {
	TelegramID int64     `db:"telegram_id" json:"telegram_id"`
	Username   string    `db:"username" json:"username"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Channel is a required channel a user must be subscribed to.
type Channel struct {
	ID      int64  `db:"id" json:"id"`
	Name    string `db:"channel_name" json:"name"`
	ChatRef string `db:"chat_ref" json:"chat_ref"`
}

// Movie is a committed, searchable video entry retrievable by code.
type Movie struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Year        int       `db:"year" json:"year"`
	Genre       string    `db:"genre" json:"genre"`
	Language    string    `db:"language" json:"language"`
	Code        string    `db:"code" json:"code"`
	VideoFileID *string   `db:"video_file_id" json:"video_file_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// DraftMovie carries a completed intake form ready to be committed.
type DraftMovie struct {
	Title       string `json:"title"`
	Year        int    `json:"year"`
	Genre       string `json:"genre"`
	Language    string `json:"language"`
	Code        string `json:"code"`
	VideoFileID string `json:"video_file_id"`
}

// Users persists bot users.
type Users interface {
	// Upsert creates the user or refreshes their username.
	Upsert(ctx context.Context, telegramID int64, username string) error
}

// Channels reads the required channel set. The set is re-read on every
// verification; implementations must not cache across calls.
type Channels interface {
	List(ctx context.Context) ([]Channel, error)
}

// Movies persists and looks up movie entries.
type Movies interface {
	// Create commits a draft and returns the new movie ID.
	Create(ctx context.Context, draft DraftMovie) (int64, error)
	// FindByCode returns the first movie with the exact code,
	// or ErrNotFound.
	FindByCode(ctx context.Context, code string) (*Movie, error)
}

// Store groups the collaborator stores behind one value.
type Store struct {
	Users    Users
	Channels Channels
	Movies   Movies
}
