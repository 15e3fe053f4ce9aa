package helpers

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/magnitronlab/preorder-bot/core/logger"
	"github.com/magnitronlab/preorder-bot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

var globalDispatcher atomic.Pointer[sender.Dispatcher]

// SetDispatcher wires the asynchronous sender used by helper functions.
// A nil dispatcher makes every helper send synchronously.
func SetDispatcher(d *sender.Dispatcher) {
	globalDispatcher.Store(d)
}

func sendMaybeAsync(c tele.Context, action string, run func() error) error {
	disp := globalDispatcher.Load()
	if disp == nil {
		return run()
	}

	ctx := BuildContext(c)
	err := disp.Enqueue(ctx, action, func(context.Context) error { return run() })
	if errors.Is(err, sender.ErrQueueFull) || errors.Is(err, sender.ErrQueueClosed) {
		logger.Warn(ctx, "tg.sender", "queue.fallback",
			slog.String("action", action),
			slog.String("err", err.Error()),
		)
		return run()
	}
	return err
}

func markupOf(markup []*tele.ReplyMarkup) *tele.ReplyMarkup {
	if len(markup) > 0 {
		return markup[0]
	}
	return nil
}

// SendText sends raw text (no parse mode) to the current recipient.
func SendText(c tele.Context, text string, opts ...*tele.SendOptions) error {
	return sendMaybeAsync(c, "send.text", func() error {
		if len(opts) > 0 && opts[0] != nil {
			return c.Send(text, opts[0])
		}
		return c.Send(text)
	})
}

// SendMD sends a message with Markdown parse mode and optional reply markup.
func SendMD(c tele.Context, text string, markup ...*tele.ReplyMarkup) error {
	return SendText(c, text, &tele.SendOptions{ParseMode: tele.ModeMarkdown, ReplyMarkup: markupOf(markup)})
}

// EditOrSendText edits the message carrying the pressed button, or sends a new one if editing fails.
func EditOrSendText(c tele.Context, text string, opts ...*tele.SendOptions) error {
	return sendMaybeAsync(c, "send.edit_or_send", func() error {
		if len(opts) > 0 && opts[0] != nil {
			return c.EditOrSend(text, opts[0])
		}
		return c.EditOrSend(text)
	})
}

// EditOrSendMD is EditOrSendText with Markdown parse mode and optional reply markup.
func EditOrSendMD(c tele.Context, text string, markup ...*tele.ReplyMarkup) error {
	return EditOrSendText(c, text, &tele.SendOptions{ParseMode: tele.ModeMarkdown, ReplyMarkup: markupOf(markup)})
}

// SendDocument uploads a file to the current recipient.
func SendDocument(c tele.Context, doc *tele.Document) error {
	return sendMaybeAsync(c, "send.document", func() error {
		return c.Send(doc)
	})
}
