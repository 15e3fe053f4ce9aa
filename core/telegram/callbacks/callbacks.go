// Package callbacks decodes Telebot inline button callback data.
package callbacks

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// Parse splits raw callback data into unique key and payload.
// Telebot encodes buttons as "\f<unique>|<payload>"; plain data without the marker
// is treated as a bare key.
func Parse(data string) (string, string) {
	raw := strings.TrimPrefix(data, "\f")
	unique, payload, _ := strings.Cut(raw, "|")
	return strings.TrimSpace(unique), payload
}

// Split returns the unique key and payload of cb. Telebot fills cb.Unique itself
// when it recognises the marker, leaving only the payload in cb.Data.
func Split(cb *tele.Callback) (string, string) {
	if cb == nil {
		return "", ""
	}
	if cb.Unique != "" {
		return cb.Unique, cb.Data
	}
	return Parse(cb.Data)
}
