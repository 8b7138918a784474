package router

import (
	"time"

	tg "github.com/m3rciful/kinobot/telegram"
	"github.com/m3rciful/kinobot/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// Flow receives every non-command update for the sending user.
type Flow interface {
	HandleText(c tele.Context) error
	HandleMedia(c tele.Context) error
}

// TextRoutes builds handlers for text and media routing. Slash commands
// resolve through the registry first; everything else goes to the flow.
func TextRoutes(flow Flow, reg *tg.Registry) []tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()

		if reg != nil && len(text) > 0 && text[0] == '/' {
			if key, cmd, ok := reg.LookupCommand(text); ok && cmd.Handler != nil {
				name := normalizeHandlerName(key)
				return handleWithSummary(c, name, start, "", "", func() error {
					return cmd.Handler(c)
				})
			}
		}

		if flow != nil {
			return handleWithSummary(c, "flow", start, "", "", func() error {
				return flow.HandleText(c)
			})
		}

		if reg != nil {
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "fallback", start, "", "", func() error {
					return fb(c)
				})
			}
		}

		logHandlerSummary(c, "unknown_text", start, "skip", "ok", nil)
		return nil
	}

	mediaHandler := func(c tele.Context) error {
		start := time.Now()
		if flow != nil {
			return handleWithSummary(c, "flow_media", start, "", "", func() error {
				return flow.HandleMedia(c)
			})
		}
		logHandlerSummary(c, "unexpected_media", start, "skip", "ok", nil)
		return nil
	}

	return []tg.Route{
		{
			Endpoint: tele.OnText,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
		},
		{
			Endpoint: tele.OnVideo,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(mediaHandler)),
		},
		{
			Endpoint: tele.OnDocument,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(mediaHandler)),
		},
	}
}
