package router

import (
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/magnitronlab/preorder-bot/core/logger"
	tghelpers "github.com/magnitronlab/preorder-bot/core/telegram/helpers"
	"github.com/magnitronlab/preorder-bot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

func handleWithSummary(c tele.Context, handlerName string, fn tele.HandlerFunc, extras ...slog.Attr) error {
	start := time.Now()
	tghelpers.WithHandler(c, handlerName)
	var err error
	if fn != nil {
		err = fn(c)
	}
	logHandlerSummary(c, handlerName, start, err, extras...)
	return err
}

func logHandlerSummary(c tele.Context, handlerName string, start time.Time, err error, extras ...slog.Attr) {
	ctx := tghelpers.WithHandler(c, handlerName)
	msgs, kb := middleware.GetCounters(c)

	status := "ok"
	if err != nil {
		status = "fail"
	}
	attrs := []slog.Attr{
		slog.String("status", status),
		slog.String("outcome", status),
		slog.Int("messages", msgs),
		slog.Bool("kb", kb),
		slog.Duration("duration", logger.Took(start)),
	}
	if err != nil {
		attrs = append(attrs,
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			slog.String("err_code", deriveErrorCode(err)),
		)
	}
	logger.LogEvent(ctx, logger.TG, slog.LevelInfo, "handler.handled", append(attrs, extras...)...)
}

func normalizeHandlerName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "unknown"
	}
	name = strings.TrimPrefix(name, "/")
	name = strings.ReplaceAll(name, " ", "_")
	return strings.ToLower(name)
}

// deriveErrorCode names an error by its Code method or, failing that, by its innermost type.
func deriveErrorCode(err error) string {
	if err == nil {
		return ""
	}
	type coder interface{ Code() string }
	var c coder
	if errors.As(err, &c) {
		if code := strings.TrimSpace(c.Code()); code != "" {
			return strings.ToUpper(strings.ReplaceAll(code, " ", "_"))
		}
	}
	for next := errors.Unwrap(err); next != nil; next = errors.Unwrap(err) {
		err = next
	}
	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t != nil && t.Name() != "" {
		return strings.ToUpper(t.Name())
	}
	return "UNKNOWN_ERROR"
}
