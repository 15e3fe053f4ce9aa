package bot

import (
	"context"

	tghelpers "github.com/magnitronlab/preorder-bot/core/telegram/helpers"
	"github.com/magnitronlab/preorder-bot/core/telegram/keyboard"
	"github.com/magnitronlab/preorder-bot/internal/dialogue"

	tele "gopkg.in/telebot.v4"
)

// responder answers in the chat of c. Replies to a button press replace the
// message that carried the button.
type responder struct {
	c tele.Context
}

func (r responder) Respond(_ context.Context, rep dialogue.Reply) error {
	markup := keyboard.InlineButtonsRows(rep.Buttons...)
	edit := r.c.Callback() != nil
	switch {
	case rep.Markdown && edit:
		return tghelpers.EditOrSendMD(r.c, rep.Text, markup)
	case rep.Markdown:
		return tghelpers.SendMD(r.c, rep.Text, markup)
	case edit:
		return tghelpers.EditOrSendText(r.c, rep.Text, &tele.SendOptions{ReplyMarkup: markup})
	}
	return tghelpers.SendText(r.c, rep.Text, &tele.SendOptions{ReplyMarkup: markup})
}
