package middleware

import (
	"log/slog"

	"github.com/magnitronlab/preorder-bot/core/logger"
	tghelpers "github.com/magnitronlab/preorder-bot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// OperatorOptions defines how operator-only checks should behave.
type OperatorOptions struct {
	OperatorID int64
	OnReject   tele.HandlerFunc
}

func (o OperatorOptions) allowed(c tele.Context) bool {
	if o.OperatorID == 0 {
		return false
	}
	user := c.Sender()
	return user != nil && user.ID == o.OperatorID
}

// OperatorOnlyMiddleware ensures that only the operator can invoke downstream handlers.
// With no operator configured every caller is rejected.
func OperatorOnlyMiddleware(opts OperatorOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if opts.allowed(c) {
				return next(c)
			}
			logger.Warn(tghelpers.BuildContext(c), "tg", "access.denied",
				slog.String("status", "denied"),
			)
			if opts.OnReject != nil {
				return opts.OnReject(c)
			}
			return nil
		}
	}
}
