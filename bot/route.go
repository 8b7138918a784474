package bot

import (
	"strings"

	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/m3rciful/kinobot/telegram/helpers"
)

// HandleText routes a gated text update. The intake trigger wins over
// everything, an in-progress form owns all further input, and the
// default interpretation is a movie code lookup.
func (h *Handlers) HandleText(c tele.Context) error {
	return h.gated(h.routeText)(c)
}

// HandleMedia routes a gated video or document update.
func (h *Handlers) HandleMedia(c tele.Context) error {
	return h.gated(h.routeMedia)(c)
}

func (h *Handlers) routeText(c tele.Context) error {
	userID := c.Sender().ID
	text := strings.TrimSpace(c.Text())
	rec := h.conv.Get(userID)

	switch {
	case text == BtnAddMovie:
		return h.startIntake(c)
	case rec.Adding():
		return h.intakeText(c, rec, text)
	case text == BtnBotService:
		return tghelpers.SendHTML(c, msgBotService)
	default:
		return h.searchByCode(c, text)
	}
}

func (h *Handlers) routeMedia(c tele.Context) error {
	rec := h.conv.Get(c.Sender().ID)
	if !rec.Adding() {
		return nil
	}
	return h.intakeMedia(c, rec)
}
