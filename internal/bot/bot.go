// Package bot connects Telegram updates to the order dialogue.
package bot

import (
	"context"
	"fmt"
	"strings"

	tg "github.com/magnitronlab/preorder-bot/core/telegram"
	"github.com/magnitronlab/preorder-bot/core/telegram/callbacks"
	"github.com/magnitronlab/preorder-bot/core/telegram/commands"
	tghelpers "github.com/magnitronlab/preorder-bot/core/telegram/helpers"
	"github.com/magnitronlab/preorder-bot/internal/dialogue"
	"github.com/magnitronlab/preorder-bot/internal/order"

	tele "gopkg.in/telebot.v4"
)

const (
	CommandStart  = "/start"
	CommandCancel = "/cancel"
	CommandExport = "/export"
)

// Dialogue is the controller surface the handlers drive.
type Dialogue interface {
	Handle(ctx context.Context, u dialogue.User, ev dialogue.Event, resp dialogue.Responder) error
}

// OrderReader returns every stored order.
type OrderReader interface {
	ReadAll() ([]order.Record, error)
}

// Handlers turns updates into dialogue events.
type Handlers struct {
	dialogue Dialogue
	orders   OrderReader
}

// NewHandlers builds Handlers. orders may be nil, which disables /export.
func NewHandlers(d Dialogue, orders OrderReader) *Handlers {
	return &Handlers{dialogue: d, orders: orders}
}

// Register adds commands, callbacks and fallbacks to reg.
func (h *Handlers) Register(reg *tg.Registry) error {
	cmds := map[string]commands.Command{
		CommandStart:  {Handler: h.Start, Description: "Оформить предзаказ / Pre-order"},
		CommandCancel: {Handler: h.Cancel, Description: "Отменить оформление / Cancel"},
	}
	if h.orders != nil {
		cmds[CommandExport] = commands.Command{Handler: h.Export, Description: "Выгрузить заказы", OperatorOnly: true}
	}
	for name, cmd := range cmds {
		if err := reg.RegisterCommand(name, cmd); err != nil {
			return err
		}
	}
	for _, key := range []string{dialogue.CallbackLanguage, dialogue.CallbackTerms} {
		if err := reg.RegisterCallback(key, h.Press); err != nil {
			return err
		}
	}
	reg.SetCallbackNotFound(func(c tele.Context) error {
		_ = c.Respond()
		return h.Press(c)
	})
	reg.SetCommandFallback(h.Command)
	reg.SetTextFallback(h.Text)
	return nil
}

// Start begins a new dialogue, discarding any unfinished one.
func (h *Handlers) Start(c tele.Context) error {
	return h.dispatch(c, dialogue.Start())
}

// Cancel abandons the current dialogue.
func (h *Handlers) Cancel(c tele.Context) error {
	return h.dispatch(c, dialogue.Cancel())
}

// Press forwards an inline button press.
func (h *Handlers) Press(c tele.Context) error {
	unique, payload := callbacks.Split(c.Callback())
	return h.dispatch(c, dialogue.Press(dialogue.ParseInteraction(unique, payload)))
}

// Command forwards a slash command nobody registered.
func (h *Handlers) Command(c tele.Context) error {
	name, _, _ := strings.Cut(strings.TrimSpace(c.Text()), " ")
	return h.dispatch(c, dialogue.Command(name))
}

// Text forwards a plain message.
func (h *Handlers) Text(c tele.Context) error {
	return h.dispatch(c, dialogue.Text(c.Text()))
}

func (h *Handlers) dispatch(c tele.Context, ev dialogue.Event) error {
	from := c.Sender()
	if from == nil {
		return nil
	}
	u := dialogue.User{ID: from.ID, Username: from.Username, FirstName: from.FirstName}
	if err := h.dialogue.Handle(tghelpers.BuildContext(c), u, ev, responder{c: c}); err != nil {
		return fmt.Errorf("dialogue %s: %w", ev.Kind, err)
	}
	return nil
}
