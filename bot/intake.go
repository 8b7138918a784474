package bot

import (
	"strconv"

	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/kinobot/conversation"
	"github.com/m3rciful/kinobot/logger"
	"github.com/m3rciful/kinobot/storage"
	tghelpers "github.com/m3rciful/kinobot/telegram/helpers"
)

// startIntake opens the movie intake form for admins. Non-admins get a
// denial and keep their current state.
func (h *Handlers) startIntake(c tele.Context) error {
	userID := c.Sender().ID
	if !h.cfg.IsAdmin(userID) {
		return tghelpers.SendText(c, msgAdminOnly)
	}

	rec := h.conv.Get(userID)
	rec.State = conversation.StateAdding
	rec.Step = conversation.StepTitle
	rec.Draft = conversation.Draft{}
	h.conv.Put(userID, rec)

	return tghelpers.SendText(c, msgAskTitle, &tele.SendOptions{ReplyMarkup: backOnly()})
}

// intakeText consumes one text answer of the form. The back button
// aborts from any step and discards the draft.
func (h *Handlers) intakeText(c tele.Context, rec conversation.Record, text string) error {
	userID := c.Sender().ID
	if text == BtnBack {
		return h.sendMainMenu(c)
	}

	switch rec.Step {
	case conversation.StepTitle:
		rec.Draft.Title = text
		rec.Step = conversation.StepYear
		h.conv.Put(userID, rec)
		return tghelpers.SendText(c, msgAskYear)

	case conversation.StepYear:
		year, err := strconv.Atoi(text)
		if err != nil {
			return tghelpers.SendText(c, msgYearNotNumber)
		}
		rec.Draft.Year = year
		rec.Step = conversation.StepGenre
		h.conv.Put(userID, rec)
		return tghelpers.SendText(c, msgAskGenre)

	case conversation.StepGenre:
		rec.Draft.Genre = text
		rec.Step = conversation.StepLanguage
		h.conv.Put(userID, rec)
		return tghelpers.SendText(c, msgAskLanguage)

	case conversation.StepLanguage:
		rec.Draft.Language = text
		rec.Step = conversation.StepCode
		h.conv.Put(userID, rec)
		return tghelpers.SendText(c, msgAskCode)

	case conversation.StepCode:
		rec.Draft.Code = text
		rec.Step = conversation.StepVideo
		h.conv.Put(userID, rec)
		return tghelpers.SendText(c, msgAskVideo)

	case conversation.StepVideo:
		return tghelpers.SendText(c, msgVideoMP4Only)
	}
	return nil
}

// intakeMedia consumes the final video step. Only MP4 videos are
// accepted; anything else re-prompts without advancing.
func (h *Handlers) intakeMedia(c tele.Context, rec conversation.Record) error {
	if rec.Step != conversation.StepVideo {
		return nil
	}
	msg := c.Message()
	if msg == nil || msg.Video == nil || msg.Video.MIME != "video/mp4" {
		return tghelpers.SendText(c, msgVideoMP4Only)
	}

	rec.Draft.VideoFileID = msg.Video.FileID
	return h.commitIntake(c, rec)
}

// commitIntake writes the finished draft to storage exactly once. The
// record is reset before any reply goes out so a failed send can never
// leave the form open for a second commit.
func (h *Handlers) commitIntake(c tele.Context, rec conversation.Record) error {
	userID := c.Sender().ID
	draft := storage.DraftMovie{
		Title:       rec.Draft.Title,
		Year:        rec.Draft.Year,
		Genre:       rec.Draft.Genre,
		Language:    rec.Draft.Language,
		Code:        rec.Draft.Code,
		VideoFileID: rec.Draft.VideoFileID,
	}

	ctx, cancel := opCtx(c)
	defer cancel()
	id, err := h.store.Movies.Create(ctx, draft)
	h.conv.Reset(userID)

	notice := movieAdded(draft.Title)
	if err != nil {
		notice = msgMovieAddFail
		logger.Error(ctx, "bot", "intake.commit.failed",
			slog.String("status", "fail"),
			slog.Int64("user_id", userID),
			slog.String("movie_code", draft.Code),
			slog.String("err", err.Error()),
		)
	} else {
		logger.Info(ctx, "bot", "intake.committed",
			slog.String("status", "ok"),
			slog.Int64("user_id", userID),
			slog.Int64("movie_id", id),
			slog.String("movie_code", draft.Code),
		)
	}

	if sendErr := tghelpers.SendText(c, notice); sendErr != nil {
		logger.Warn(ctx, "bot", "intake.notice.failed",
			slog.String("status", "fail"),
			slog.Int64("user_id", userID),
			slog.String("err", sendErr.Error()),
		)
	}
	return h.sendMainMenu(c)
}
