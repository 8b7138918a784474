package subscription

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/kinobot/conversation"
)

type sentPrompt struct {
	to   tele.Recipient
	what interface{}
	opts []interface{}
}

type fakeMessenger struct {
	sent      []sentPrompt
	deleted   []tele.Editable
	sendErr   error
	deleteErr error
	nextID    int
}

func (f *fakeMessenger) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sent = append(f.sent, sentPrompt{to: to, what: what, opts: opts})
	f.nextID++
	return &tele.Message{ID: f.nextID}, nil
}

func (f *fakeMessenger) Delete(msg tele.Editable) error {
	f.deleted = append(f.deleted, msg)
	return f.deleteErr
}

func newTestGate(active bool, api *fakeMessenger) (*Gate, *conversation.Store) {
	role := tele.Member
	if !active {
		role = tele.Left
	}
	channels := &fakeChannels{channels: twoChannels()}
	verifier := NewVerifier(channels, &fakeMembers{roles: map[string]tele.MemberStatus{
		"@kino": role, "@news": role,
	}})
	conv := conversation.NewStore()
	return NewGate(verifier, channels, conv, api), conv
}

func TestEnsureSubscribedPassesActiveUser(t *testing.T) {
	api := &fakeMessenger{}
	gate, _ := newTestGate(true, api)

	assert.True(t, gate.EnsureSubscribed(context.Background(), 10, 10))
	assert.Empty(t, api.sent, "no prompt for an active user")
}

func TestEnsureSubscribedPromptsInactiveUser(t *testing.T) {
	api := &fakeMessenger{}
	gate, conv := newTestGate(false, api)

	assert.False(t, gate.EnsureSubscribed(context.Background(), 10, 10))
	require.Len(t, api.sent, 1)
	assert.Equal(t, promptText, api.sent[0].what)
	assert.Equal(t, 1, conv.Get(10).PromptMessageID)
}

func TestPromptKeyboardListsChannelsAndConfirm(t *testing.T) {
	api := &fakeMessenger{}
	gate, _ := newTestGate(false, api)

	gate.Prompt(context.Background(), 10, 10)

	require.Len(t, api.sent, 1)
	require.Len(t, api.sent[0].opts, 1)
	markup, ok := api.sent[0].opts[0].(*tele.ReplyMarkup)
	require.True(t, ok)
	require.Len(t, markup.InlineKeyboard, 3)
	assert.Equal(t, "https://t.me/kino", markup.InlineKeyboard[0][0].URL)
	assert.Equal(t, "https://t.me/news", markup.InlineKeyboard[1][0].URL)
	assert.Equal(t, confirmButtonText, markup.InlineKeyboard[2][0].Text)
}

func TestPromptRetractsPreviousPrompt(t *testing.T) {
	api := &fakeMessenger{}
	gate, conv := newTestGate(false, api)

	gate.Prompt(context.Background(), 10, 10)
	gate.Prompt(context.Background(), 10, 10)

	require.Len(t, api.deleted, 1)
	msgID, chatID := api.deleted[0].MessageSig()
	assert.Equal(t, "1", msgID)
	assert.Equal(t, int64(10), chatID)
	assert.Equal(t, 2, conv.Get(10).PromptMessageID)
}

func TestPromptDeleteFailureStillPrompts(t *testing.T) {
	api := &fakeMessenger{deleteErr: errors.New("message to delete not found")}
	gate, conv := newTestGate(false, api)

	gate.Prompt(context.Background(), 10, 10)
	gate.Prompt(context.Background(), 10, 10)

	assert.Len(t, api.sent, 2)
	assert.Equal(t, 2, conv.Get(10).PromptMessageID)
}

func TestPromptSurvivesChannelSourceError(t *testing.T) {
	api := &fakeMessenger{}
	verifier := NewVerifier(&fakeChannels{err: errors.New("db down")}, &fakeMembers{})
	conv := conversation.NewStore()
	gate := NewGate(verifier, &fakeChannels{err: errors.New("db down")}, conv, api)

	gate.Prompt(context.Background(), 10, 10)

	require.Len(t, api.sent, 1)
	markup := api.sent[0].opts[0].(*tele.ReplyMarkup)
	require.Len(t, markup.InlineKeyboard, 1)
	assert.Equal(t, confirmButtonText, markup.InlineKeyboard[0][0].Text)
}

func TestPromptSendFailureLeavesNoRecord(t *testing.T) {
	api := &fakeMessenger{sendErr: errors.New("blocked by user")}
	gate, conv := newTestGate(false, api)

	gate.Prompt(context.Background(), 10, 10)

	assert.Zero(t, conv.Get(10).PromptMessageID)
}

func TestChannelURL(t *testing.T) {
	assert.Equal(t, "https://t.me/kino", channelURL("@kino"))
	assert.Equal(t, "https://t.me/kino", channelURL("kino"))
	assert.Equal(t, "https://t.me/joinchat/abc", channelURL("https://t.me/joinchat/abc"))
}
