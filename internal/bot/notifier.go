package bot

import (
	"context"
	"errors"
	"log/slog"

	"github.com/magnitronlab/preorder-bot/core/logger"
	"github.com/magnitronlab/preorder-bot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

// MessageSender is the part of *tele.Bot the notifier needs.
type MessageSender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Notifier delivers Markdown messages to the operator through the sender dispatcher.
// Without a dispatcher, or when its queue rejects the job, it sends synchronously.
type Notifier struct {
	api        MessageSender
	dispatcher *sender.Dispatcher
}

// NewNotifier builds a Notifier on top of api.
func NewNotifier(api MessageSender, d *sender.Dispatcher) *Notifier {
	return &Notifier{api: api, dispatcher: d}
}

// Notify queues text for recipient.
func (n *Notifier) Notify(ctx context.Context, recipient int64, text string) error {
	if n == nil || n.api == nil {
		return errors.New("notifier: no telegram client")
	}
	run := func(context.Context) error {
		_, err := n.api.Send(tele.ChatID(recipient), text, tele.ModeMarkdown)
		return err
	}
	if n.dispatcher == nil {
		return run(ctx)
	}
	err := n.dispatcher.Enqueue(ctx, "notify.operator", run)
	if errors.Is(err, sender.ErrQueueFull) || errors.Is(err, sender.ErrQueueClosed) {
		logger.Warn(ctx, "tg.sender", "queue.fallback",
			slog.String("action", "notify.operator"),
			slog.String("err", err.Error()),
		)
		return run(ctx)
	}
	return err
}
