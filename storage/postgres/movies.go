package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"log/slog"

	"github.com/m3rciful/kinobot/logger"
	"github.com/m3rciful/kinobot/storage"
)

// MovieRepo persists movie entries keyed by their lookup code.
type MovieRepo struct {
	db *sqlx.DB
}

// Create commits a completed draft and returns the new movie ID.
func (r *MovieRepo) Create(ctx context.Context, draft storage.DraftMovie) (int64, error) {
	const q = `
		INSERT INTO movies (title, year, genre, language, code, video_file_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	start := time.Now()
	var id int64
	err := r.db.QueryRowContext(ctx, q,
		draft.Title, draft.Year, draft.Genre, draft.Language, draft.Code, draft.VideoFileID,
	).Scan(&id)
	if err != nil {
		logger.SVCMovies.Error("movie create failed",
			slog.String("event", "movies.create"),
			slog.String("movie_code", draft.Code),
			slog.String("err", err.Error()),
		)
		return 0, fmt.Errorf("create movie %s: %w", draft.Code, err)
	}
	logger.SVCMovies.Info("movie created",
		slog.String("event", "movies.create"),
		slog.Int64("movie_id", id),
		slog.String("movie_code", draft.Code),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return id, nil
}

// FindByCode returns the first movie with the exact code or ErrNotFound.
func (r *MovieRepo) FindByCode(ctx context.Context, code string) (*storage.Movie, error) {
	const q = `
		SELECT id, title, year, genre, language, code, video_file_id, created_at
		FROM movies
		WHERE code = $1
		ORDER BY id
		LIMIT 1`

	var m storage.Movie
	if err := r.db.GetContext(ctx, &m, q, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("find movie by code %s: %w", code, err)
	}
	return &m, nil
}
