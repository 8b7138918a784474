package bot

import (
	"errors"

	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/kinobot/logger"
	"github.com/m3rciful/kinobot/storage"
	"github.com/m3rciful/kinobot/telegram/format"
	tghelpers "github.com/m3rciful/kinobot/telegram/helpers"
)

// searchByCode treats free text as a movie code and delivers the video
// with its caption. The video send is synchronous so a delivery failure
// can be reported to the user.
func (h *Handlers) searchByCode(c tele.Context, code string) error {
	userID := c.Sender().ID
	defer h.conv.Reset(userID)

	if code == "" {
		return tghelpers.SendText(c, msgMovieNotFound)
	}

	ctx, cancel := opCtx(c)
	defer cancel()
	movie, err := h.store.Movies.FindByCode(ctx, code)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return tghelpers.SendText(c, msgMovieNotFound)
	case err != nil:
		logger.Error(ctx, "bot", "search.lookup.failed",
			slog.String("status", "fail"),
			slog.Int64("user_id", userID),
			slog.String("movie_code", code),
			slog.String("err", err.Error()),
		)
		return tghelpers.SendText(c, msgStorageDown)
	}

	fileID := format.DerefString(movie.VideoFileID, "")
	if fileID == "" {
		return tghelpers.SendText(c, msgVideoMissing)
	}

	video := &tele.Video{
		File:    tele.File{FileID: fileID},
		Caption: movieCaption(movie, h.botUsername),
	}
	if err := c.Send(video, &tele.SendOptions{ParseMode: tele.ModeHTML}); err != nil {
		logger.Error(ctx, "bot", "search.deliver.failed",
			slog.String("status", "fail"),
			slog.Int64("user_id", userID),
			slog.Int64("movie_id", movie.ID),
			slog.String("err", err.Error()),
		)
		return tghelpers.SendText(c, msgVideoSendFail)
	}

	logger.Debug(ctx, "bot", "search.delivered",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.Int64("movie_id", movie.ID),
		slog.String("movie_code", code),
	)
	return nil
}
