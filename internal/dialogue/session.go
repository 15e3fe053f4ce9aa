package dialogue

import (
	"time"

	"github.com/magnitronlab/preorder-bot/core/telegram/state"
	"github.com/magnitronlab/preorder-bot/internal/i18n"
)

// User identifies the person behind an event.
type User struct {
	ID        int64
	Username  string
	FirstName string
}

// Fields are the answers collected after the terms are accepted.
type Fields struct {
	FirstName string
	LastName  string
	Phone     string
	Email     string
	Address   string
}

// Session is one user's dialogue scratch state. It is stored by value.
type Session struct {
	UserID        int64
	DisplayHandle string
	// TelegramName is the first name from the Telegram profile, shown to the operator.
	TelegramName string
	// Language is empty until chosen and never changes afterwards.
	Language  i18n.Language
	StartedAt time.Time
	State     state.State
	Fields    Fields
}

// Lang returns the session language, defaulting to the primary one.
func (s Session) Lang() i18n.Language {
	return s.Language.OrDefault()
}

func newSession(u User, now time.Time) Session {
	handle := u.Username
	if handle == "" {
		handle = i18n.Text(i18n.Primary, i18n.UnspecifiedHandle)
	}
	return Session{
		UserID:        u.ID,
		DisplayHandle: handle,
		TelegramName:  u.FirstName,
		StartedAt:     now,
		State:         StateChoosingLanguage,
	}
}
