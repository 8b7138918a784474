package bot

import (
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/kinobot/subscription"
	tg "github.com/m3rciful/kinobot/telegram"
	"github.com/m3rciful/kinobot/telegram/commands"
	tghelpers "github.com/m3rciful/kinobot/telegram/helpers"
	"github.com/m3rciful/kinobot/telegram/router"
)

// Register adds the bot's commands and callbacks to the registry.
func (h *Handlers) Register(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     h.Start,
		Description: "Botni ishga tushirish",
	})
	reg.RegisterCommand("/addmovie", commands.Command{
		Handler: h.gated(func(c tele.Context) error {
			return h.startIntake(c)
		}),
		Description: "Kino qo'shish",
		AdminOnly:   true,
		Hidden:      true,
	})
	_ = reg.RegisterCallback(subscription.ConfirmUnique, h.ConfirmSubscription)
}

// Routes assembles the full route table: slash commands, the text and
// media flow, and the callback dispatcher.
func (h *Handlers) Routes(reg *tg.Registry) []tg.Route {
	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminIDs: h.cfg.Telegram.Admins,
		OnAdminReject: func(c tele.Context) error {
			return tghelpers.SendText(c, msgAdminOnly)
		},
	})
	routes = append(routes, router.TextRoutes(h, reg)...)
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	return routes
}
