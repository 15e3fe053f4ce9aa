package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	coreconfig "github.com/magnitronlab/preorder-bot/core/config"
	"github.com/magnitronlab/preorder-bot/core/logger"
	tghelpers "github.com/magnitronlab/preorder-bot/core/telegram/helpers"
	tgsender "github.com/magnitronlab/preorder-bot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

// Middleware describes a global bot middleware to be registered via bot.Use.
type Middleware struct {
	Name string
	Use  tele.MiddlewareFunc
}

// Route declares a single bot handler bound to an arbitrary endpoint.
// Endpoint values are passed directly to tele.Bot.Handle.
type Route struct {
	Endpoint any
	Handler  tele.HandlerFunc
}

// RunOptions controls the behaviour of RunTelegram.
type RunOptions struct {
	Config *coreconfig.Config
	// Bot is used as is when set; otherwise RunTelegram builds one from Config.
	Bot      *tele.Bot
	Registry *Registry

	DispatcherOptions tgsender.Options
	Dispatcher        *tgsender.Dispatcher

	Middlewares []Middleware
	Routes      []Route

	DisableWebhookCleanup bool
	// DisableHelperDispatcher keeps helper sends synchronous so replies keep their order.
	DisableHelperDispatcher bool

	OnStart func(ctx context.Context, rt Runtime) error
	OnStop  func(ctx context.Context, rt Runtime) error
}

// Runtime exposes runtime components to lifecycle hooks.
type Runtime struct {
	Bot        *tele.Bot
	Dispatcher *tgsender.Dispatcher
	Registry   *Registry
}

// NewBot builds a Telebot instance from the core configuration.
func NewBot(cfg *coreconfig.Config) (*tele.Bot, error) {
	if cfg == nil {
		return nil, fmt.Errorf("telegram: nil config provided")
	}
	start := time.Now()
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.Telegram.Token,
		Poller: BuildPoller(PollerOptionsFrom(cfg)),
		Client: BuildHTTPClient(HTTPClientOptions{RetryAttempts: 3}),
		OnError: func(err error, c tele.Context) {
			ctx := context.Background()
			if c != nil {
				ctx = tghelpers.BuildContext(c)
			}
			logger.Error(ctx, "tg", "handler.error", slog.String("status", "fail"), slog.String("err", err.Error()))
		},
	})
	if err != nil {
		return nil, fmt.Errorf("telegram: bot initialization failed: %w", err)
	}
	logger.TG.LogAttrs(context.Background(), slog.LevelInfo, "",
		slog.String("event", "bot.ready"),
		slog.String("username", bot.Me.Username),
		slog.Duration("duration", logger.Took(start)),
	)
	return bot, nil
}

// RunTelegram composes and runs a Telegram bot until the provided context is done.
func RunTelegram(ctx context.Context, opts RunOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Config == nil {
		return fmt.Errorf("telegram: nil config provided")
	}
	cfg := opts.Config

	bot := opts.Bot
	if bot == nil {
		var err error
		if bot, err = NewBot(cfg); err != nil {
			return err
		}
	}
	reg := opts.Registry
	if reg == nil {
		reg = NewRegistry()
	}

	dispatcher := opts.Dispatcher
	if dispatcher == nil {
		dispatcher = tgsender.NewDispatcher(opts.DispatcherOptions)
	}
	useHelperDispatcher := !opts.DisableHelperDispatcher
	if useHelperDispatcher {
		tghelpers.SetDispatcher(dispatcher)
	}
	release := func() {
		dispatcher.Close()
		if useHelperDispatcher {
			tghelpers.SetDispatcher(nil)
		}
	}

	rt := Runtime{Bot: bot, Dispatcher: dispatcher, Registry: reg}
	logMode(ctx, bot, cfg, opts.DisableWebhookCleanup)

	for _, mw := range opts.Middlewares {
		if mw.Use != nil {
			bot.Use(mw.Use)
		}
	}
	for _, route := range opts.Routes {
		if route.Endpoint != nil && route.Handler != nil {
			bot.Handle(route.Endpoint, route.Handler)
		}
	}
	InitBotCommands(bot, reg)

	if opts.OnStart != nil {
		if err := opts.OnStart(ctx, rt); err != nil {
			release()
			return err
		}
	}

	runDone := make(chan struct{})
	go func() {
		bot.Start()
		close(runDone)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		bot.Stop()
		<-runDone
		runErr = ctx.Err()
	case <-runDone:
	}

	var stopErr error
	if opts.OnStop != nil {
		stopErr = opts.OnStop(context.WithoutCancel(ctx), rt)
	}
	release()

	if stopErr != nil {
		return stopErr
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}

func logMode(ctx context.Context, bot *tele.Bot, cfg *coreconfig.Config, skipCleanup bool) {
	switch p := bot.Poller.(type) {
	case *tele.Webhook:
		logger.Info(ctx, "tg", "mode",
			slog.String("mode", coreconfig.RunModeWebhook),
			slog.String("listen", p.Listen),
			slog.String("public_url", p.Endpoint.PublicURL),
		)
	default:
		logger.Info(ctx, "tg", "mode",
			slog.String("mode", coreconfig.RunModeLongpoll),
			slog.Int("timeout_seconds", cfg.Telegram.LongPollTimeoutSeconds),
		)
		if skipCleanup {
			return
		}
		// A webhook left over from a previous deployment blocks getUpdates.
		if err := bot.RemoveWebhook(); err != nil {
			logger.Warn(ctx, "tg", "delete_webhook",
				slog.String("status", "fail"),
				slog.String("err", err.Error()),
			)
			return
		}
		logger.Info(ctx, "tg", "delete_webhook", slog.String("status", "ok"))
	}
}
