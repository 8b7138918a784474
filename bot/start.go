package bot

import (
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/kinobot/logger"
	tghelpers "github.com/m3rciful/kinobot/telegram/helpers"
)

// Start handles /start: it registers the user, enforces the
// subscription gate and renders the main menu.
func (h *Handlers) Start(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		return nil
	}
	unlock := h.conv.Lock(user.ID)
	defer unlock()

	ctx, cancel := opCtx(c)
	defer cancel()
	if err := h.store.Users.Upsert(ctx, user.ID, user.Username); err != nil {
		logger.Error(ctx, "bot", "user.upsert.failed",
			slog.String("status", "fail"),
			slog.Int64("user_id", user.ID),
			slog.String("err", err.Error()),
		)
		return tghelpers.SendText(c, msgUserSaveErr)
	}

	if !h.gate.EnsureSubscribed(ctx, user.ID, c.Chat().ID) {
		return nil
	}
	return h.sendMainMenu(c)
}

// ConfirmSubscription handles the "I have subscribed" button: it
// re-verifies membership and either opens the main menu or re-prompts.
func (h *Handlers) ConfirmSubscription(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		return nil
	}
	unlock := h.conv.Lock(user.ID)
	defer unlock()

	ctx := tghelpers.BuildContext(c)
	if !h.gate.Verifier().IsSubscribed(ctx, user.ID) {
		h.gate.Prompt(ctx, user.ID, c.Chat().ID)
		return nil
	}
	return h.sendMainMenu(c)
}

// sendMainMenu resets the conversation to searching and shows the menu.
// Callers must hold the user's conversation lock.
func (h *Handlers) sendMainMenu(c tele.Context) error {
	user := c.Sender()
	h.conv.Reset(user.ID)
	return tghelpers.SendHTML(c, greeting(user.FirstName), mainMenu(h.cfg.IsAdmin(user.ID)))
}
