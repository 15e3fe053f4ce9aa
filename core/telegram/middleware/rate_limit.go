package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/magnitronlab/preorder-bot/core/config"
	"github.com/magnitronlab/preorder-bot/core/logger"
	tghelpers "github.com/magnitronlab/preorder-bot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// RateLimitOptions configures behaviour of the rate limit middleware.
type RateLimitOptions struct {
	Interval  time.Duration
	Exclude   map[string]struct{}
	OnLimited tele.HandlerFunc
}

func updateKind(upd tele.Update) string {
	switch {
	case upd.Callback != nil:
		return config.UpdateCallback
	case upd.Message != nil:
		return config.UpdateMessage
	}
	return "other"
}

// RateLimitMiddleware enforces a minimum interval between updates from the same user.
// Limited updates are dropped without reaching the handler.
func RateLimitMiddleware(opts RateLimitOptions) tele.MiddlewareFunc {
	var (
		mu       sync.Mutex
		lastSeen = make(map[int64]time.Time)
	)
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil || opts.Interval <= 0 {
				return next(c)
			}
			if _, skip := opts.Exclude[updateKind(c.Update())]; skip {
				return next(c)
			}

			now := time.Now()
			mu.Lock()
			last, seen := lastSeen[user.ID]
			limited := seen && now.Sub(last) < opts.Interval
			if !limited {
				lastSeen[user.ID] = now
			}
			mu.Unlock()

			if !limited {
				return next(c)
			}
			logger.Warn(tghelpers.BuildContext(c), "tg", "rate_limit",
				slog.String("status", "rate_limited"),
				slog.Duration("interval", opts.Interval),
			)
			if opts.OnLimited != nil {
				_ = opts.OnLimited(c)
			}
			return nil
		}
	}
}
