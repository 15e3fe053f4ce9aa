package router

import (
	"context"
	"log/slog"

	"github.com/magnitronlab/preorder-bot/core/logger"
	tg "github.com/magnitronlab/preorder-bot/core/telegram"
	"github.com/magnitronlab/preorder-bot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// CommandRouteOptions configures how commands are wrapped and exposed.
type CommandRouteOptions struct {
	OperatorID int64
	// OnOperatorReject handles operator-only commands sent by anyone else.
	// When nil the registry's command fallback is used, so the command looks unregistered.
	OnOperatorReject tele.HandlerFunc
}

// CommandRoutes prepares command handlers wrapped with shared middleware.
func CommandRoutes(reg *tg.Registry, opts CommandRouteOptions) []tg.Route {
	if reg == nil {
		return nil
	}

	onReject := opts.OnOperatorReject
	if onReject == nil {
		onReject = func(c tele.Context) error {
			return handleWithSummary(c, "unknown_command", reg.CommandFallback(), slog.String("reason", "operator_only"))
		}
	}
	operatorOnly := middleware.OperatorOnlyMiddleware(middleware.OperatorOptions{
		OperatorID: opts.OperatorID,
		OnReject:   onReject,
	})

	cmds := reg.Commands()
	routes := make([]tg.Route, 0, len(cmds))
	for name, def := range cmds {
		handlerName := "command." + normalizeHandlerName(name)
		h := def.Handler
		var wrapped tele.HandlerFunc = func(c tele.Context) error {
			return handleWithSummary(c, handlerName, h)
		}
		if def.OperatorOnly {
			wrapped = operatorOnly(wrapped)
		}
		routes = append(routes, tg.Route{Endpoint: name, Handler: wrapped})
	}

	logger.TWire.LogAttrs(context.Background(), slog.LevelInfo, "",
		slog.String("event", "commands.wired"),
		slog.Int("commands", len(cmds)),
		slog.Int("callbacks", len(reg.ListCallbacks())),
	)
	return routes
}
