package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/magnitronlab/preorder-bot/core/logger"
	"github.com/magnitronlab/preorder-bot/core/telegram/callbacks"
	tghelpers "github.com/magnitronlab/preorder-bot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// recentUpdates keeps a short-lived set of processed update IDs to avoid double logging.
var (
	recentMu     sync.Mutex
	recentUpdate = make(map[int]time.Time)
	keepFor      = 10 * time.Second
)

func alreadyLogged(updateID int) bool {
	now := time.Now()
	recentMu.Lock()
	defer recentMu.Unlock()
	for id, ts := range recentUpdate {
		if now.Sub(ts) > keepFor {
			delete(recentUpdate, id)
		}
	}
	if _, ok := recentUpdate[updateID]; ok {
		return true
	}
	recentUpdate[updateID] = now
	return false
}

// LoggerMiddleware sets the request id for the update and logs a sampled receipt line.
// Receipts are deduplicated by update_id when the middleware is applied on several branches.
func LoggerMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		upd := c.Update()
		user := c.Sender()
		chat := c.Chat()

		var chatID, userID int64
		if chat != nil {
			chatID = chat.ID
		}
		if user != nil {
			userID = user.ID
		}
		rid := logger.BuildRID(upd.ID, chatID, userID)
		c.Set("rid", rid)
		c.Set("update_start", time.Now())
		ctx := tghelpers.BuildContext(c)

		if logger.ShouldSampleDebug() && !alreadyLogged(upd.ID) {
			attrs := []slog.Attr{slog.String("status", "ok")}
			if chat != nil {
				attrs = append(attrs, slog.String("chat_type", string(chat.Type)))
			}
			if user != nil {
				if user.Username != "" {
					attrs = append(attrs, slog.String("username", logger.SanitizeLimit(user.Username, 64)))
				}
				if user.LanguageCode != "" {
					attrs = append(attrs, slog.String("lang", user.LanguageCode))
				}
			}
			switch {
			case upd.Callback != nil:
				key, payload := callbacks.Split(upd.Callback)
				if key != "" {
					attrs = append(attrs, slog.String("cb_key", logger.SanitizeLimit(key, 128)))
				}
				if payload != "" {
					attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(payload, 256)))
				}
			case upd.Message != nil:
				// Free text may carry personal data, only its size is logged.
				if t := c.Text(); t != "" {
					attrs = append(attrs, slog.Int("text_len", len([]rune(t))))
				}
			}
			logger.LogEvent(ctx, logger.TG, slog.LevelDebug, "update.received", attrs...)
		}

		return next(c)
	}
}
