package router

import (
	"strings"

	tg "github.com/magnitronlab/preorder-bot/core/telegram"

	tele "gopkg.in/telebot.v4"
)

// TextRoutes builds the handler for text messages that no command route claimed.
// Telebot delivers unregistered slash commands here, so those go to the registry's
// command fallback and everything else to its text fallback.
func TextRoutes(reg *tg.Registry) []tg.Route {
	handler := func(c tele.Context) error {
		text := strings.TrimSpace(c.Text())
		if strings.HasPrefix(text, "/") {
			if fb := reg.CommandFallback(); fb != nil {
				return handleWithSummary(c, "unknown_command", fb)
			}
		}
		if fb := reg.TextFallback(); fb != nil {
			return handleWithSummary(c, "text", fb)
		}
		return handleWithSummary(c, "unknown_text", nil)
	}
	return []tg.Route{{Endpoint: tele.OnText, Handler: handler}}
}
