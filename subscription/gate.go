package subscription

import (
	"context"
	"strconv"
	"strings"

	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/kinobot/conversation"
	"github.com/m3rciful/kinobot/logger"
	"github.com/m3rciful/kinobot/storage"
	"github.com/m3rciful/kinobot/telegram/keyboard"
)

// ConfirmUnique is the callback key of the "I have subscribed" button.
const ConfirmUnique = "azo"

const (
	promptText        = "Botdan foydalanish uchun quyidagi kanallarga obuna bo'ling:"
	confirmButtonText = "A'zo bo'ldim"
)

// Messenger sends and retracts prompt messages. *tele.Bot satisfies it.
type Messenger interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
	Delete(msg tele.Editable) error
}

// Gate enforces the subscription precondition ahead of every feature
// handler. When the check fails it retracts the previous prompt
// (best-effort) and renders a fresh one, recording its reference.
type Gate struct {
	verifier *Verifier
	channels storage.Channels
	conv     *conversation.Store
	api      Messenger
}

// NewGate wires the gate from its collaborators.
func NewGate(verifier *Verifier, channels storage.Channels, conv *conversation.Store, api Messenger) *Gate {
	return &Gate{verifier: verifier, channels: channels, conv: conv, api: api}
}

// Verifier exposes the underlying verifier for confirm-callback re-checks.
func (g *Gate) Verifier() *Verifier {
	return g.verifier
}

// EnsureSubscribed returns true when the user may proceed. Otherwise
// it sends a fresh subscription prompt and returns false; the caller
// must stop handling the current update.
func (g *Gate) EnsureSubscribed(ctx context.Context, userID, chatID int64) bool {
	if g.verifier.IsSubscribed(ctx, userID) {
		return true
	}
	g.Prompt(ctx, userID, chatID)
	return false
}

// Prompt retracts the previously shown subscription prompt (failures
// are logged and ignored) and sends a new one listing every required
// channel plus the confirmation button.
func (g *Gate) Prompt(ctx context.Context, userID, chatID int64) {
	if rec := g.conv.Get(userID); rec.PromptMessageID != 0 {
		stale := tele.StoredMessage{
			MessageID: strconv.Itoa(rec.PromptMessageID),
			ChatID:    chatID,
		}
		if err := g.api.Delete(stale); err != nil {
			logger.Warn(ctx, "gate", "prompt.delete.failed",
				slog.String("status", "fail"),
				slog.Int64("user_id", userID),
				slog.String("err", err.Error()),
			)
		}
	}

	listCtx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()
	channels, err := g.channels.List(listCtx)
	if err != nil {
		// Prompt anyway so the user at least gets the confirm button.
		logger.Error(ctx, "gate", "channels.list.failed",
			slog.String("status", "fail"),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
	}

	msg, err := g.api.Send(tele.ChatID(chatID), promptText, promptMarkup(channels))
	if err != nil {
		logger.Error(ctx, "gate", "prompt.send.failed",
			slog.String("status", "fail"),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return
	}

	g.conv.SetPromptMessageID(userID, msg.ID)
	logger.Debug(ctx, "gate", "prompt.sent",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.Int("channels_total", len(channels)),
	)
}

func promptMarkup(channels []storage.Channel) *tele.ReplyMarkup {
	buttons := make([]keyboard.InlineBtn, 0, len(channels)+1)
	for _, ch := range channels {
		buttons = append(buttons, keyboard.InlineBtn{
			Text: ch.Name,
			URL:  channelURL(ch.ChatRef),
		})
	}
	buttons = append(buttons, keyboard.InlineBtn{
		Text:   confirmButtonText,
		Unique: ConfirmUnique,
	})
	return keyboard.InlineButtons(buttons)
}

// channelURL turns a channel reference into a joinable link. "@name"
// references become t.me links; full URLs pass through unchanged.
func channelURL(ref string) string {
	switch {
	case strings.HasPrefix(ref, "@"):
		return "https://t.me/" + strings.TrimPrefix(ref, "@")
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return ref
	default:
		return "https://t.me/" + ref
	}
}
