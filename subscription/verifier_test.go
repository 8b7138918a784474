package subscription

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/kinobot/storage"
)

type fakeChannels struct {
	channels []storage.Channel
	err      error
	calls    int
}

func (f *fakeChannels) List(_ context.Context) ([]storage.Channel, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.channels, nil
}

type fakeMembers struct {
	roles map[string]tele.MemberStatus
	errs  map[string]error
}

func (f *fakeMembers) ChatMemberOf(chat, _ tele.Recipient) (*tele.ChatMember, error) {
	ref := chat.Recipient()
	if err, ok := f.errs[ref]; ok {
		return nil, err
	}
	role, ok := f.roles[ref]
	if !ok {
		return nil, errors.New("chat not found")
	}
	return &tele.ChatMember{Role: role}, nil
}

func twoChannels() []storage.Channel {
	return []storage.Channel{
		{ID: 1, Name: "Kino kanal", ChatRef: "@kino"},
		{ID: 2, Name: "Yangiliklar", ChatRef: "@news"},
	}
}

func TestIsSubscribedAllActive(t *testing.T) {
	v := NewVerifier(
		&fakeChannels{channels: twoChannels()},
		&fakeMembers{roles: map[string]tele.MemberStatus{"@kino": tele.Member, "@news": tele.Administrator}},
	)

	assert.True(t, v.IsSubscribed(context.Background(), 10))
}

func TestIsSubscribedRestrictedCountsAsActive(t *testing.T) {
	v := NewVerifier(
		&fakeChannels{channels: twoChannels()},
		&fakeMembers{roles: map[string]tele.MemberStatus{"@kino": tele.Restricted, "@news": tele.Member}},
	)

	assert.True(t, v.IsSubscribed(context.Background(), 10))
}

func TestIsSubscribedFailsOnLeftOrKicked(t *testing.T) {
	for _, role := range []tele.MemberStatus{tele.Left, tele.Kicked} {
		v := NewVerifier(
			&fakeChannels{channels: twoChannels()},
			&fakeMembers{roles: map[string]tele.MemberStatus{"@kino": tele.Member, "@news": role}},
		)
		assert.False(t, v.IsSubscribed(context.Background(), 10), "role %s", role)
	}
}

func TestIsSubscribedFailsClosedOnQueryError(t *testing.T) {
	v := NewVerifier(
		&fakeChannels{channels: twoChannels()},
		&fakeMembers{
			roles: map[string]tele.MemberStatus{"@kino": tele.Member},
			errs:  map[string]error{"@news": errors.New("chat unreachable")},
		},
	)

	assert.False(t, v.IsSubscribed(context.Background(), 10))
}

func TestIsSubscribedFailsClosedOnChannelSourceError(t *testing.T) {
	v := NewVerifier(
		&fakeChannels{err: errors.New("db down")},
		&fakeMembers{},
	)

	assert.False(t, v.IsSubscribed(context.Background(), 10))
}

func TestIsSubscribedNoChannelsRequired(t *testing.T) {
	v := NewVerifier(&fakeChannels{}, &fakeMembers{})

	assert.True(t, v.IsSubscribed(context.Background(), 10))
}

func TestIsSubscribedRereadsChannelSetEveryCall(t *testing.T) {
	src := &fakeChannels{channels: twoChannels()}
	v := NewVerifier(src, &fakeMembers{roles: map[string]tele.MemberStatus{
		"@kino": tele.Member, "@news": tele.Member,
	}})

	v.IsSubscribed(context.Background(), 10)
	v.IsSubscribed(context.Background(), 10)

	assert.Equal(t, 2, src.calls)
}
