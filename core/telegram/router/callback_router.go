package router

import (
	"log/slog"

	tg "github.com/magnitronlab/preorder-bot/core/telegram"
	"github.com/magnitronlab/preorder-bot/core/telegram/callbacks"

	tele "gopkg.in/telebot.v4"
)

// CallbackRoute returns a handler that dispatches callbacks by their unique key.
// The callback is acknowledged before the handler runs so the client stops its spinner.
func CallbackRoute(reg *tg.Registry) tg.Route {
	handler := func(c tele.Context) error {
		cb := c.Callback()
		if cb == nil {
			return nil
		}
		key, _ := callbacks.Split(cb)
		name := "callback." + normalizeHandlerName(key)
		extras := []slog.Attr{slog.String("cb_key", key)}

		if h, ok := reg.GetCallback(key); ok {
			_ = c.Respond()
			return handleWithSummary(c, name, h, extras...)
		}
		return handleWithSummary(c, name, reg.CallbackNotFound(), append(extras, slog.String("reason", "not_found"))...)
	}
	return tg.Route{Endpoint: tele.OnCallback, Handler: handler}
}
