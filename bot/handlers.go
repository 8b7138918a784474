// Package bot implements the user-facing handlers: the /start entry
// point, the subscription confirm callback, the admin movie intake form
// and the code-based movie search.
package bot

import (
	"context"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/kinobot/config"
	"github.com/m3rciful/kinobot/conversation"
	"github.com/m3rciful/kinobot/storage"
	"github.com/m3rciful/kinobot/subscription"
	tghelpers "github.com/m3rciful/kinobot/telegram/helpers"
)

// storageTimeout bounds every store call made from a handler.
const storageTimeout = 5 * time.Second

// Handlers owns the bot feature handlers and their collaborators.
// The gate and bot identity are late-bound via Bind once the Telegram
// client exists.
type Handlers struct {
	cfg   *config.Config
	store storage.Store
	conv  *conversation.Store

	gate        *subscription.Gate
	botUsername string
}

// New creates the handler set. Bind must be called before the bot
// starts processing updates.
func New(cfg *config.Config, store storage.Store, conv *conversation.Store) *Handlers {
	return &Handlers{cfg: cfg, store: store, conv: conv}
}

// Bind attaches the Telegram client: it wires the subscription gate and
// records the bot's own username for captions.
func (h *Handlers) Bind(bot *tele.Bot) {
	verifier := subscription.NewVerifier(h.store.Channels, bot)
	h.gate = subscription.NewGate(verifier, h.store.Channels, h.conv, bot)
	if bot.Me != nil {
		h.botUsername = bot.Me.Username
	}
}

// BindGate injects a prebuilt gate. Used by tests in place of Bind.
func (h *Handlers) BindGate(gate *subscription.Gate, botUsername string) {
	h.gate = gate
	h.botUsername = botUsername
}

// gated wraps a handler with the per-user lock and the subscription
// check. On gate failure the prompt has already been sent and the
// update is dropped.
func (h *Handlers) gated(fn tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		user := c.Sender()
		if user == nil {
			return nil
		}
		unlock := h.conv.Lock(user.ID)
		defer unlock()

		ctx := tghelpers.BuildContext(c)
		if !h.gate.EnsureSubscribed(ctx, user.ID, c.Chat().ID) {
			return nil
		}
		return fn(c)
	}
}

// opCtx derives a bounded context for a single store call.
func opCtx(c tele.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(tghelpers.BuildContext(c), storageTimeout)
}
