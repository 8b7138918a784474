package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/kinobot/conversation"
)

func textUpdate(f *fixture, userID int64, text string) *testContext {
	c := newTestContext(userID, text)
	_ = f.handlers.HandleText(c)
	return c
}

func TestIntakeDeniedForNonAdmin(t *testing.T) {
	f := newFixture(true)

	c := newTestContext(testUserID, BtnAddMovie)
	require.NoError(t, f.handlers.HandleText(c))

	assert.Equal(t, msgAdminOnly, c.lastText())
	assert.Equal(t, conversation.StateSearching, f.conv.Get(testUserID).State)
}

func TestIntakeFullWalkthrough(t *testing.T) {
	f := newFixture(true)

	steps := []struct {
		input  string
		expect string
	}{
		{BtnAddMovie, msgAskTitle},
		{"Qasoskorlar", msgAskYear},
		{"2019", msgAskGenre},
		{"Fantastika", msgAskLanguage},
		{"O'zbekcha", msgAskCode},
		{"4521", msgAskVideo},
	}
	for _, step := range steps {
		c := newTestContext(testAdminID, step.input)
		require.NoError(t, f.handlers.HandleText(c))
		assert.Equal(t, step.expect, c.lastText(), "input %q", step.input)
	}

	rec := f.conv.Get(testAdminID)
	require.True(t, rec.Adding())
	assert.Equal(t, conversation.StepVideo, rec.Step)
	assert.Equal(t, "Qasoskorlar", rec.Draft.Title)
	assert.Equal(t, 2019, rec.Draft.Year)

	c := newTestContext(testAdminID, "")
	c.message = &tele.Message{Video: &tele.Video{
		File: tele.File{FileID: "file-4521"},
		MIME: "video/mp4",
	}}
	require.NoError(t, f.handlers.HandleMedia(c))

	texts := c.texts()
	require.NotEmpty(t, texts)
	assert.Equal(t, movieAdded("Qasoskorlar"), texts[0])

	saved := f.store.movies["4521"]
	assert.Equal(t, "Qasoskorlar", saved.Title)
	assert.Equal(t, 2019, saved.Year)
	assert.Equal(t, "Fantastika", saved.Genre)
	assert.Equal(t, "O'zbekcha", saved.Language)
	require.NotNil(t, saved.VideoFileID)
	assert.Equal(t, "file-4521", *saved.VideoFileID)

	assert.Equal(t, conversation.StateSearching, f.conv.Get(testAdminID).State)
}

func TestIntakeYearMustBeNumeric(t *testing.T) {
	f := newFixture(true)

	textUpdate(f, testAdminID, BtnAddMovie)
	textUpdate(f, testAdminID, "Qasoskorlar")

	c := newTestContext(testAdminID, "o'n to'qqiz")
	require.NoError(t, f.handlers.HandleText(c))

	assert.Equal(t, msgYearNotNumber, c.lastText())
	rec := f.conv.Get(testAdminID)
	assert.Equal(t, conversation.StepYear, rec.Step, "step does not advance")
	assert.Equal(t, "Qasoskorlar", rec.Draft.Title, "collected fields survive")
}

func TestIntakeBackAbortsFromAnyStep(t *testing.T) {
	f := newFixture(true)

	textUpdate(f, testAdminID, BtnAddMovie)
	textUpdate(f, testAdminID, "Qasoskorlar")
	textUpdate(f, testAdminID, "2019")

	c := newTestContext(testAdminID, BtnBack)
	require.NoError(t, f.handlers.HandleText(c))

	rec := f.conv.Get(testAdminID)
	assert.Equal(t, conversation.StateSearching, rec.State)
	assert.Empty(t, rec.Draft.Title, "draft discarded")
	assert.Empty(t, f.store.movies, "nothing committed")
}

func TestIntakeRejectsNonMP4Video(t *testing.T) {
	f := newFixture(true)

	for _, input := range []string{BtnAddMovie, "Qasoskorlar", "2019", "Fantastika", "O'zbekcha", "4521"} {
		textUpdate(f, testAdminID, input)
	}

	c := newTestContext(testAdminID, "")
	c.message = &tele.Message{Video: &tele.Video{
		File: tele.File{FileID: "file-mkv"},
		MIME: "video/x-matroska",
	}}
	require.NoError(t, f.handlers.HandleMedia(c))

	assert.Equal(t, msgVideoMP4Only, c.lastText())
	assert.Equal(t, conversation.StepVideo, f.conv.Get(testAdminID).Step)
	assert.Empty(t, f.store.movies)
}

func TestIntakeTextAtVideoStepReprompts(t *testing.T) {
	f := newFixture(true)

	for _, input := range []string{BtnAddMovie, "Qasoskorlar", "2019", "Fantastika", "O'zbekcha", "4521"} {
		textUpdate(f, testAdminID, input)
	}

	c := newTestContext(testAdminID, "mana video")
	require.NoError(t, f.handlers.HandleText(c))

	assert.Equal(t, msgVideoMP4Only, c.lastText())
	assert.Equal(t, conversation.StepVideo, f.conv.Get(testAdminID).Step)
}

func TestIntakeCommitFailureReturnsToMenu(t *testing.T) {
	f := newFixture(true)
	f.store.createErr = errBoom

	for _, input := range []string{BtnAddMovie, "Qasoskorlar", "2019", "Fantastika", "O'zbekcha", "4521"} {
		textUpdate(f, testAdminID, input)
	}

	c := newTestContext(testAdminID, "")
	c.message = &tele.Message{Video: &tele.Video{
		File: tele.File{FileID: "file-4521"},
		MIME: "video/mp4",
	}}
	require.NoError(t, f.handlers.HandleMedia(c))

	texts := c.texts()
	require.NotEmpty(t, texts)
	assert.Equal(t, msgMovieAddFail, texts[0])
	assert.Equal(t, conversation.StateSearching, f.conv.Get(testAdminID).State)
}

func TestIntakeCommitsOnceWhenRepliesFail(t *testing.T) {
	f := newFixture(true)

	for _, input := range []string{BtnAddMovie, "Qasoskorlar", "2019", "Fantastika", "O'zbekcha", "4521"} {
		textUpdate(f, testAdminID, input)
	}

	c := newTestContext(testAdminID, "")
	c.textErr = errBoom
	c.message = &tele.Message{Video: &tele.Video{
		File: tele.File{FileID: "file-4521"},
		MIME: "video/mp4",
	}}
	_ = f.handlers.HandleMedia(c)

	assert.Equal(t, conversation.StateSearching, f.conv.Get(testAdminID).State,
		"form closes even when the confirmation cannot be delivered")
	require.Len(t, f.store.movies, 1)

	c2 := newTestContext(testAdminID, "")
	c2.message = &tele.Message{Video: &tele.Video{
		File: tele.File{FileID: "file-4521"},
		MIME: "video/mp4",
	}}
	require.NoError(t, f.handlers.HandleMedia(c2))

	assert.Equal(t, int64(1), f.store.nextID, "re-sent video does not commit again")
}

func TestMediaIgnoredOutsideIntake(t *testing.T) {
	f := newFixture(true)

	c := newTestContext(testUserID, "")
	c.message = &tele.Message{Video: &tele.Video{
		File: tele.File{FileID: "file-x"},
		MIME: "video/mp4",
	}}
	require.NoError(t, f.handlers.HandleMedia(c))

	assert.Empty(t, c.sent)
}
