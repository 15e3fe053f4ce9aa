// Package keyboard builds Telebot reply markups from plain button descriptions.
package keyboard

import tele "gopkg.in/telebot.v4"

// InlineBtn describes an inline button independently of Telebot types.
type InlineBtn struct {
	Text   string
	Unique string
	Data   string
}

// InlineButtonsRows builds an inline keyboard from rows of InlineBtn.
// It returns nil when there are no buttons so callers can pass the result straight to Send.
func InlineButtonsRows(rows ...[]InlineBtn) *tele.ReplyMarkup {
	if len(rows) == 0 {
		return nil
	}
	markup := &tele.ReplyMarkup{}
	inline := make([][]tele.InlineButton, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		r := make([]tele.InlineButton, len(row))
		for j, btn := range row {
			r[j] = *markup.Data(btn.Text, btn.Unique, btn.Data).Inline()
		}
		inline = append(inline, r)
	}
	if len(inline) == 0 {
		return nil
	}
	markup.InlineKeyboard = inline
	return markup
}
