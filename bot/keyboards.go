package bot

import (
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/kinobot/telegram/keyboard"
)

// mainMenu builds the persistent reply keyboard. The intake button is
// shown only to admins; the service row is visible to everyone.
func mainMenu(isAdmin bool) *tele.ReplyMarkup {
	rows := [][]string{{BtnBotService}}
	if isAdmin {
		rows = append(rows, []string{BtnAddMovie})
	}
	return keyboard.ReplyButtons(rows...)
}

// backOnly is shown during intake so the form can be abandoned at any step.
func backOnly() *tele.ReplyMarkup {
	return keyboard.ReplyButtons([]string{BtnBack})
}
