package telegram

import (
	"strings"
	"time"

	coreconfig "github.com/magnitronlab/preorder-bot/core/config"
	"github.com/magnitronlab/preorder-bot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// DefaultMiddlewares builds the shared middleware chain: panic recovery, optional
// per-user rate limiting, request logging and message counters.
func DefaultMiddlewares(cfg *coreconfig.Config, onLimited tele.HandlerFunc) []Middleware {
	mws := []Middleware{
		{Name: "recover", Use: middleware.RecoverMiddleware},
	}

	if cfg != nil && cfg.RateLimit.IntervalMS > 0 {
		ex := make(map[string]struct{}, len(cfg.RateLimit.ExcludeUpdates))
		for _, t := range cfg.RateLimit.ExcludeUpdates {
			if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
				ex[t] = struct{}{}
			}
		}
		mws = append(mws, Middleware{
			Name: "rate_limit",
			Use: middleware.RateLimitMiddleware(middleware.RateLimitOptions{
				Interval:  time.Duration(cfg.RateLimit.IntervalMS) * time.Millisecond,
				Exclude:   ex,
				OnLimited: onLimited,
			}),
		})
	}

	return append(mws,
		Middleware{Name: "logger", Use: middleware.LoggerMiddleware},
		Middleware{Name: "metrics", Use: middleware.MessageMetricsMiddleware},
	)
}
