package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/kinobot/conversation"
)

func TestStartRegistersUserAndShowsMenu(t *testing.T) {
	f := newFixture(true)

	c := newTestContext(testUserID, "/start")
	require.NoError(t, f.handlers.Start(c))

	assert.Equal(t, "aziz", f.store.users[testUserID])
	require.Len(t, c.sent, 1)
	greetingText, ok := c.sent[0].what.(string)
	require.True(t, ok)
	assert.Contains(t, greetingText, "Salom Aziz")

	opts := c.sent[0].opts[0].(*tele.SendOptions)
	assert.Equal(t, tele.ModeHTML, opts.ParseMode)
	require.NotNil(t, opts.ReplyMarkup)
	require.Len(t, opts.ReplyMarkup.ReplyKeyboard, 1)
	assert.Equal(t, BtnBotService, opts.ReplyMarkup.ReplyKeyboard[0][0].Text)
}

func TestStartShowsIntakeRowForAdmin(t *testing.T) {
	f := newFixture(true)

	c := newTestContext(testAdminID, "/start")
	require.NoError(t, f.handlers.Start(c))

	opts := c.sent[0].opts[0].(*tele.SendOptions)
	require.Len(t, opts.ReplyMarkup.ReplyKeyboard, 2)
	assert.Equal(t, BtnAddMovie, opts.ReplyMarkup.ReplyKeyboard[1][0].Text)
}

func TestStartUpsertFailure(t *testing.T) {
	f := newFixture(true)
	f.store.upsertErr = errBoom

	c := newTestContext(testUserID, "/start")
	require.NoError(t, f.handlers.Start(c))

	assert.Equal(t, msgUserSaveErr, c.lastText())
}

func TestStartGatesUnsubscribedUser(t *testing.T) {
	f := newFixture(false)

	c := newTestContext(testUserID, "/start")
	require.NoError(t, f.handlers.Start(c))

	assert.Empty(t, c.sent, "no menu for an unsubscribed user")
	require.Len(t, f.prompts.sent, 1, "subscription prompt goes out instead")
	assert.NotZero(t, f.conv.Get(testUserID).PromptMessageID)
}

func TestTextIsGatedForUnsubscribedUser(t *testing.T) {
	f := newFixture(false)
	seedMovie(f.store, "4521")

	c := newTestContext(testUserID, "4521")
	require.NoError(t, f.handlers.HandleText(c))

	assert.Empty(t, c.sent, "search must not run behind the gate")
	assert.Len(t, f.prompts.sent, 1)
}

func TestConfirmSubscriptionOpensMenu(t *testing.T) {
	f := newFixture(true)

	c := newTestContext(testUserID, "")
	require.NoError(t, f.handlers.ConfirmSubscription(c))

	require.Len(t, c.sent, 1)
	greetingText := c.sent[0].what.(string)
	assert.Contains(t, greetingText, "Salom")
	assert.Equal(t, conversation.StateSearching, f.conv.Get(testUserID).State)
}

func TestConfirmSubscriptionRepromptsWhenStillInactive(t *testing.T) {
	f := newFixture(false)

	c := newTestContext(testUserID, "")
	require.NoError(t, f.handlers.ConfirmSubscription(c))
	require.NoError(t, f.handlers.ConfirmSubscription(c))

	assert.Empty(t, c.sent)
	assert.Len(t, f.prompts.sent, 2)
	assert.Equal(t, 1, f.prompts.deleted, "second prompt retracts the first")
}

func TestBotServiceInfo(t *testing.T) {
	f := newFixture(true)

	c := newTestContext(testUserID, BtnBotService)
	require.NoError(t, f.handlers.HandleText(c))

	assert.Equal(t, msgBotService, c.lastText())
}

func TestIntakeOwnsInputDuringForm(t *testing.T) {
	f := newFixture(true)

	textUpdate(f, testAdminID, BtnAddMovie)
	textUpdate(f, testAdminID, "Qasoskorlar")

	c := newTestContext(testAdminID, BtnBotService)
	require.NoError(t, f.handlers.HandleText(c))

	assert.Equal(t, msgYearNotNumber, c.lastText(), "form consumes the info button text")
	rec := f.conv.Get(testAdminID)
	assert.True(t, rec.Adding())
	assert.Equal(t, conversation.StepYear, rec.Step)
}

func TestIntakeTriggerRestartsForm(t *testing.T) {
	f := newFixture(true)

	textUpdate(f, testAdminID, BtnAddMovie)
	textUpdate(f, testAdminID, "Qasoskorlar")

	c := newTestContext(testAdminID, BtnAddMovie)
	require.NoError(t, f.handlers.HandleText(c))

	assert.Equal(t, msgAskTitle, c.lastText())
	rec := f.conv.Get(testAdminID)
	assert.Equal(t, conversation.StepTitle, rec.Step)
	assert.Empty(t, rec.Draft.Title, "restart clears the draft")
}
