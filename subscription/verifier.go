// Package subscription implements the membership gate placed in front
// of every bot feature: a fail-closed verifier over the required
// channel set and the prompt controller that re-asks users to join.
package subscription

import (
	"context"
	"time"

	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/kinobot/logger"
	"github.com/m3rciful/kinobot/storage"
)

const listTimeout = 5 * time.Second

// MembershipClient answers chat membership queries. *tele.Bot
// satisfies it.
type MembershipClient interface {
	ChatMemberOf(chat, user tele.Recipient) (*tele.ChatMember, error)
}

// chatRef lets a raw channel reference ("@name" or a numeric chat id)
// act as a telebot Recipient.
type chatRef string

func (r chatRef) Recipient() string { return string(r) }

// Verifier re-checks the user's membership in every required channel.
// The channel set is re-read from storage on each call; nothing is
// cached between checks.
type Verifier struct {
	channels storage.Channels
	members  MembershipClient
}

// NewVerifier builds a verifier over the given channel source and
// membership client.
func NewVerifier(channels storage.Channels, members MembershipClient) *Verifier {
	return &Verifier{channels: channels, members: members}
}

// IsSubscribed reports whether the user holds an active membership in
// every required channel. Any failure along the way is logged and
// treated as "not subscribed".
func (v *Verifier) IsSubscribed(ctx context.Context, userID int64) bool {
	listCtx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	channels, err := v.channels.List(listCtx)
	if err != nil {
		logger.Error(ctx, "gate", "channels.list.failed",
			slog.String("status", "fail"),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return false
	}

	for _, ch := range channels {
		member, err := v.members.ChatMemberOf(chatRef(ch.ChatRef), &tele.User{ID: userID})
		if err != nil {
			logger.Warn(ctx, "gate", "membership.check.failed",
				slog.String("status", "fail"),
				slog.Int64("user_id", userID),
				slog.String("channel", ch.ChatRef),
				slog.String("err", err.Error()),
			)
			return false
		}
		if member.Role == tele.Left || member.Role == tele.Kicked {
			logger.Debug(ctx, "gate", "membership.inactive",
				slog.String("status", "skip"),
				slog.Int64("user_id", userID),
				slog.String("channel", ch.ChatRef),
				slog.String("state", string(member.Role)),
			)
			return false
		}
	}
	return true
}
