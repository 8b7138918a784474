package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/kinobot/storage"
)

// ChannelRepo reads and seeds the required channel set.
type ChannelRepo struct {
	db *sqlx.DB
}

// List returns every required channel. No caching: the gate re-reads
// the set on each verification.
func (r *ChannelRepo) List(ctx context.Context) ([]storage.Channel, error) {
	const q = `SELECT id, channel_name, chat_ref FROM channels ORDER BY id`

	var channels []storage.Channel
	if err := r.db.SelectContext(ctx, &channels, q); err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	return channels, nil
}

// Ensure inserts the channel if its chat reference is new, otherwise
// refreshes the display name. Used by the startup seeder.
func (r *ChannelRepo) Ensure(ctx context.Context, ch storage.Channel) error {
	const q = `
		INSERT INTO channels (channel_name, chat_ref)
		VALUES ($1, $2)
		ON CONFLICT (chat_ref)
		DO UPDATE SET channel_name = EXCLUDED.channel_name`

	if _, err := r.db.ExecContext(ctx, q, ch.Name, ch.ChatRef); err != nil {
		return fmt.Errorf("ensure channel %s: %w", ch.ChatRef, err)
	}
	return nil
}
