package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tele "gopkg.in/telebot.v4"
)

func TestSearchDeliversVideoWithCaption(t *testing.T) {
	f := newFixture(true)
	seedMovie(f.store, "4521")

	c := newTestContext(testUserID, "4521")
	require.NoError(t, f.handlers.HandleText(c))

	require.Len(t, c.sent, 1)
	video, ok := c.sent[0].what.(*tele.Video)
	require.True(t, ok, "reply must be a video")
	assert.Equal(t, "file-4521", video.FileID)
	assert.Contains(t, video.Caption, "Qasoskorlar")
	assert.Contains(t, video.Caption, "4521")
	assert.Contains(t, video.Caption, "@kinobot")

	require.Len(t, c.sent[0].opts, 1)
	opts, ok := c.sent[0].opts[0].(*tele.SendOptions)
	require.True(t, ok)
	assert.Equal(t, tele.ModeHTML, opts.ParseMode)
}

func TestSearchTrimsSurroundingWhitespace(t *testing.T) {
	f := newFixture(true)
	seedMovie(f.store, "4521")

	c := newTestContext(testUserID, "  4521  ")
	require.NoError(t, f.handlers.HandleText(c))

	require.Len(t, c.sent, 1)
	_, ok := c.sent[0].what.(*tele.Video)
	assert.True(t, ok)
}

func TestSearchUnknownCode(t *testing.T) {
	f := newFixture(true)

	c := newTestContext(testUserID, "0000")
	require.NoError(t, f.handlers.HandleText(c))

	assert.Equal(t, msgMovieNotFound, c.lastText())
}

func TestSearchResetsRecordOnEveryOutcome(t *testing.T) {
	f := newFixture(true)
	seedMovie(f.store, "4521")

	for _, code := range []string{"4521", "0000"} {
		f.conv.SetPromptMessageID(testUserID, 5)
		c := newTestContext(testUserID, code)
		require.NoError(t, f.handlers.HandleText(c))
		assert.Zero(t, f.conv.Get(testUserID).PromptMessageID, "code %s", code)
	}
}

func TestSearchStorageFailure(t *testing.T) {
	f := newFixture(true)
	f.store.findErr = errBoom

	c := newTestContext(testUserID, "4521")
	require.NoError(t, f.handlers.HandleText(c))

	assert.Equal(t, msgStorageDown, c.lastText())
}

func TestSearchMovieWithoutVideo(t *testing.T) {
	f := newFixture(true)
	m := seedMovie(f.store, "4521")
	m.VideoFileID = nil
	f.store.movies["4521"] = m

	c := newTestContext(testUserID, "4521")
	require.NoError(t, f.handlers.HandleText(c))

	assert.Equal(t, msgVideoMissing, c.lastText())
}

func TestSearchDeliveryFailureIsReported(t *testing.T) {
	f := newFixture(true)
	seedMovie(f.store, "4521")

	c := newTestContext(testUserID, "4521")
	c.videoErr = errBoom
	require.NoError(t, f.handlers.HandleText(c))

	assert.Equal(t, msgVideoSendFail, c.lastText())
}

func TestSearchCaptionEscapesUserFields(t *testing.T) {
	f := newFixture(true)
	fileID := "file-html"
	f.store.nextID++
	f.store.movies["77"] = movieWithTitle(f.store.nextID, "<Qahramon> & Co", "77", &fileID)

	c := newTestContext(testUserID, "77")
	require.NoError(t, f.handlers.HandleText(c))

	require.Len(t, c.sent, 1)
	video := c.sent[0].what.(*tele.Video)
	assert.Contains(t, video.Caption, "&lt;Qahramon&gt; &amp; Co")
}
