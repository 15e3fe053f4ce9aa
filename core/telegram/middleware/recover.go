package middleware

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/magnitronlab/preorder-bot/core/logger"
	tghelpers "github.com/magnitronlab/preorder-bot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// RecoverMiddleware catches panics in handlers and prevents the bot from crashing.
func RecoverMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error(tghelpers.BuildContext(c), "tg", "panic",
					slog.String("status", "fail"),
					slog.String("err", fmt.Sprint(r)),
					slog.String("stack", string(debug.Stack())),
				)
				err = nil
			}
		}()
		return next(c)
	}
}
