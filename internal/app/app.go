// Package app assembles the pre-order bot from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v7"

	"github.com/magnitronlab/preorder-bot/core/bootstrap"
	coreconfig "github.com/magnitronlab/preorder-bot/core/config"
	"github.com/magnitronlab/preorder-bot/core/logger"
	tg "github.com/magnitronlab/preorder-bot/core/telegram"
	"github.com/magnitronlab/preorder-bot/core/telegram/router"
	"github.com/magnitronlab/preorder-bot/core/telegram/sender"
	"github.com/magnitronlab/preorder-bot/core/telegram/state"
	orderbot "github.com/magnitronlab/preorder-bot/internal/bot"
	"github.com/magnitronlab/preorder-bot/internal/dialogue"
	"github.com/magnitronlab/preorder-bot/internal/order"

	tele "gopkg.in/telebot.v4"
)

// App owns the long-lived pieces of the bot.
type App struct {
	cfg      *Config
	infra    *bootstrap.Result
	csv      *order.CSVStore
	orders   order.Store
	sessions state.Store[dialogue.Session]
	redis    *redis.Client

	newBot func(*coreconfig.Config) (*tele.Bot, error)
}

// Bootstrap initializes logging and, when enabled, the Postgres mirror, then builds the order stores.
func Bootstrap(ctx context.Context, cfg *Config) (*App, error) {
	return bootstrapWith(ctx, cfg, bootstrap.Options{})
}

func bootstrapWith(ctx context.Context, cfg *Config, opts bootstrap.Options) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config provided")
	}
	opts.Config = cfg.CoreConfig()
	opts.Database = cfg.Database
	infra, err := bootstrap.Run(ctx, opts)
	if err != nil {
		return nil, err
	}

	csv := order.NewCSVStore(cfg.Orders.CSVPath)
	var orders order.Store = csv
	if infra.DB != nil {
		orders = order.Fanout{csv, order.NewPostgresStore(infra.DB)}
	}
	logger.Info(ctx, "orders", "store.ready",
		slog.String("csv_path", csv.Path()),
		slog.Bool("postgres", infra.DB != nil),
	)
	a := &App{cfg: cfg, infra: infra, csv: csv, orders: orders, newBot: tg.NewBot}
	if err := a.openSessions(); err != nil {
		_ = infra.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) openSessions() error {
	sc := a.cfg.Sessions
	if sc.Backend != SessionsRedis {
		a.sessions = state.NewMemoryStore[dialogue.Session]()
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: sc.RedisAddr, Password: sc.RedisPassword, DB: sc.RedisDB})
	if err := client.Ping().Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("app: redis ping: %w", err)
	}
	a.redis = client
	a.sessions = state.NewRedisStore[dialogue.Session](client, state.RedisOptions{
		Prefix: "preorder:session:",
		TTL:    time.Duration(sc.TTLMinutes) * time.Minute,
	})
	logger.Info(context.Background(), "state", "store.ready",
		slog.String("backend", SessionsRedis),
		slog.String("addr", sc.RedisAddr),
	)
	return nil
}

// TelegramRunOptions wires the dialogue, its Telegram handlers and the shared middleware.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	core := a.cfg.CoreConfig()
	b, err := a.newBot(core)
	if err != nil {
		return tg.RunOptions{}, err
	}

	dispatcher := sender.NewDispatcher(sender.Options{
		QueueSize:    core.Sender.QueueSize,
		Workers:      core.Sender.Workers,
		MaxRetries:   core.Sender.MaxRetries,
		RetryBackoff: time.Duration(core.Sender.RetryBackoffMS) * time.Millisecond,
	})
	ctrl := dialogue.New(dialogue.Options{
		Sessions:   a.sessions,
		Orders:     a.orders,
		Notifier:   orderbot.NewNotifier(b, dispatcher),
		OperatorID: core.Telegram.OperatorID,
	})

	reg := tg.NewRegistry()
	if err := orderbot.NewHandlers(ctrl, a.csv).Register(reg); err != nil {
		dispatcher.Close()
		return tg.RunOptions{}, fmt.Errorf("app: register handlers: %w", err)
	}

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{OperatorID: core.Telegram.OperatorID})
	routes = append(routes, router.CallbackRoute(reg))
	routes = append(routes, router.TextRoutes(reg)...)

	return tg.RunOptions{
		Config:      core,
		Bot:         b,
		Registry:    reg,
		Dispatcher:  dispatcher,
		Middlewares: tg.DefaultMiddlewares(core, ackLimited),
		Routes:      routes,
		// Replies to one user must arrive in the order the dialogue produced them.
		DisableHelperDispatcher: true,
		OnStop: func(ctx context.Context, _ tg.Runtime) error {
			if n := ctrl.ActiveSessions(); n > 0 {
				logger.Warn(ctx, "dialogue", "sessions.dropped", slog.Int("count", n))
			}
			return nil
		},
	}, nil
}

// ackLimited stops the button spinner of a dropped callback.
func ackLimited(c tele.Context) error {
	if c.Callback() != nil {
		return c.Respond()
	}
	return nil
}

// Close releases the database and Redis connections, if any.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	errs = append(errs, a.infra.Close())
	return errors.Join(errs...)
}
