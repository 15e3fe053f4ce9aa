package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/magnitronlab/preorder-bot/core/logger"
	"github.com/magnitronlab/preorder-bot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

// Registry holds bot commands, callbacks and the fallbacks for everything else.
type Registry struct {
	mu               sync.RWMutex
	commands         map[string]commands.Command
	callbacks        map[string]tele.HandlerFunc
	callbackNotFound tele.HandlerFunc
	commandFallback  tele.HandlerFunc
	textFallback     tele.HandlerFunc
}

// NewRegistry creates an empty Registry with default fallbacks.
func NewRegistry() *Registry {
	return &Registry{
		commands:  make(map[string]commands.Command),
		callbacks: make(map[string]tele.HandlerFunc),
		callbackNotFound: func(c tele.Context) error {
			return c.Respond(&tele.CallbackResponse{Text: "Unsupported action"})
		},
	}
}

func warnSkip(event string, attrs ...slog.Attr) {
	logger.TWire.LogAttrs(context.Background(), slog.LevelWarn, event, attrs...)
}

// RegisterCommand adds a new command. Names must start with a slash.
func (r *Registry) RegisterCommand(name string, cmd commands.Command) error {
	switch {
	case name == "" || cmd.Handler == nil || cmd.Description == "":
		warnSkip("register.command.skip", slog.String("name", name), slog.String("reason", "invalid"))
		return fmt.Errorf("invalid command registration: %q", name)
	case !strings.HasPrefix(name, "/"):
		warnSkip("register.command.skip", slog.String("name", name), slog.String("reason", "no_slash_prefix"))
		return fmt.Errorf("command %q must start with '/'", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.commands[name]; exists {
		warnSkip("register.command.duplicate", slog.String("name", name))
		return fmt.Errorf("command already registered: %s", name)
	}
	r.commands[name] = cmd
	return nil
}

// ListCommands returns commands sorted by name, optionally filtering out hidden and operator-only ones.
func (r *Registry) ListCommands(visibleOnly bool) []tele.Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]tele.Command, 0, len(r.commands))
	for name, meta := range r.commands {
		if visibleOnly && (meta.Hidden || meta.OperatorOnly) {
			continue
		}
		list = append(list, tele.Command{Text: strings.TrimPrefix(name, "/"), Description: meta.Description})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Text < list[j].Text })
	return list
}

// LookupCommand finds a command by name with or without the leading slash.
func (r *Registry) LookupCommand(name string) (string, commands.Command, bool) {
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.commands[name]
	return name, cmd, ok
}

// Commands returns a copy of all registered commands.
func (r *Registry) Commands() map[string]commands.Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]commands.Command, len(r.commands))
	for k, v := range r.commands {
		out[k] = v
	}
	return out
}

// RegisterCallback adds a callback handler mapped to its unique key.
func (r *Registry) RegisterCallback(key string, handler tele.HandlerFunc) error {
	if key == "" || handler == nil {
		warnSkip("register.callback.skip", slog.String("key", key), slog.Bool("handler_nil", handler == nil))
		return fmt.Errorf("invalid callback registration: %q", key)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.callbacks[key]; exists {
		warnSkip("register.callback.duplicate", slog.String("key", key))
		return fmt.Errorf("callback already registered: %s", key)
	}
	r.callbacks[key] = handler
	return nil
}

// GetCallback returns the handler registered for key.
func (r *Registry) GetCallback(key string) (tele.HandlerFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.callbacks[key]
	return h, ok
}

// ListCallbacks returns sorted keys.
func (r *Registry) ListCallbacks() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.callbacks))
	for k := range r.callbacks {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// SetCallbackNotFound replaces the fallback handler for unknown callbacks.
func (r *Registry) SetCallbackNotFound(h tele.HandlerFunc) {
	if h == nil {
		return
	}
	r.mu.Lock()
	r.callbackNotFound = h
	r.mu.Unlock()
}

// CallbackNotFound returns the current fallback callback handler.
func (r *Registry) CallbackNotFound() tele.HandlerFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.callbackNotFound
}

// SetCommandFallback sets the handler for slash commands nobody registered.
func (r *Registry) SetCommandFallback(h tele.HandlerFunc) {
	r.mu.Lock()
	r.commandFallback = h
	r.mu.Unlock()
}

// CommandFallback returns the handler for unregistered slash commands.
func (r *Registry) CommandFallback() tele.HandlerFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.commandFallback
}

// SetTextFallback sets the handler for plain text messages.
func (r *Registry) SetTextFallback(h tele.HandlerFunc) {
	r.mu.Lock()
	r.textFallback = h
	r.mu.Unlock()
}

// TextFallback returns the current text fallback handler.
func (r *Registry) TextFallback() tele.HandlerFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.textFallback
}

// InitBotCommands publishes the visible commands to the Telegram command menu.
func InitBotCommands(bot *tele.Bot, reg *Registry) {
	list := reg.ListCommands(true)
	if err := bot.SetCommands(list); err != nil {
		logger.TWire.LogAttrs(context.Background(), slog.LevelError, "register.commands.set_failed",
			slog.String("err", err.Error()),
		)
		return
	}
	logger.TWire.LogAttrs(context.Background(), slog.LevelInfo, "register.commands.set",
		slog.Int("commands", len(list)),
	)
}
