package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"log/slog"

	"github.com/m3rciful/kinobot/logger"
)

// UserRepo persists bot users in the users table.
type UserRepo struct {
	db *sqlx.DB
}

// Upsert creates the user record or refreshes its username.
func (r *UserRepo) Upsert(ctx context.Context, telegramID int64, username string) error {
	const q = `
		INSERT INTO users (telegram_id, username)
		VALUES ($1, $2)
		ON CONFLICT (telegram_id)
		DO UPDATE SET username = EXCLUDED.username, updated_at = now()`

	start := time.Now()
	_, err := r.db.ExecContext(ctx, q, telegramID, username)
	if err != nil {
		logger.SVCUsers.Error("user upsert failed",
			slog.String("event", "users.upsert"),
			slog.Int64("user_id", telegramID),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("upsert user %d: %w", telegramID, err)
	}
	logger.SVCUsers.Debug("user upserted",
		slog.String("event", "users.upsert"),
		slog.Int64("user_id", telegramID),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return nil
}
