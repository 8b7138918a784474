package app

import (
	"context"

	tg "github.com/m3rciful/kinobot/telegram"
)

// TelegramRunOptions assembles the route table and lifecycle hooks for
// the Telegram runtime. The handler set binds to the bot client in
// OnStart, before the first update is processed.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	reg := tg.NewRegistry()
	a.handlers.Register(reg)

	opts := tg.RunOptions{
		Config:      a.cfg,
		Registry:    reg,
		Middlewares: tg.DefaultMiddlewares(a.cfg, nil),
		Routes:      a.handlers.Routes(reg),
		OnStart: func(_ context.Context, rt tg.Runtime) error {
			a.handlers.Bind(rt.Bot)
			return nil
		},
		OnStop: func(_ context.Context, _ tg.Runtime) error {
			if a.db != nil {
				return a.db.Close()
			}
			return nil
		},
	}
	return opts, nil
}
