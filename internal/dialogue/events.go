package dialogue

import (
	"fmt"
	"strings"

	"github.com/magnitronlab/preorder-bot/internal/i18n"
)

// Callback uniques and payloads carried by the dialogue's inline buttons.
const (
	CallbackLanguage = "lang"
	CallbackTerms    = "terms"

	PayloadAccept  = "accept"
	PayloadDecline = "decline"
)

// Interaction is a button press the dialogue understands.
type Interaction int

const (
	// InteractionUnknown is any button press outside the known set.
	InteractionUnknown Interaction = iota
	LanguagePrimary
	LanguageSecondary
	Accept
	Decline
)

func (i Interaction) String() string {
	switch i {
	case LanguagePrimary:
		return "language_primary"
	case LanguageSecondary:
		return "language_secondary"
	case Accept:
		return "accept"
	case Decline:
		return "decline"
	}
	return "unknown"
}

// ParseInteraction maps callback data to an Interaction.
func ParseInteraction(unique, payload string) Interaction {
	payload = strings.TrimSpace(payload)
	switch strings.TrimSpace(unique) {
	case CallbackLanguage:
		switch lang, _ := i18n.ParseLanguage(payload); lang {
		case i18n.Primary:
			return LanguagePrimary
		case i18n.English:
			return LanguageSecondary
		}
	case CallbackTerms:
		switch payload {
		case PayloadAccept:
			return Accept
		case PayloadDecline:
			return Decline
		}
	}
	return InteractionUnknown
}

// Callback returns the unique and payload a button for i carries.
func (i Interaction) Callback() (string, string) {
	switch i {
	case LanguagePrimary:
		return CallbackLanguage, string(i18n.Primary)
	case LanguageSecondary:
		return CallbackLanguage, string(i18n.English)
	case Accept:
		return CallbackTerms, PayloadAccept
	case Decline:
		return CallbackTerms, PayloadDecline
	}
	return "", ""
}

// language returns the language a language button selects.
func (i Interaction) language() (i18n.Language, bool) {
	switch i {
	case LanguagePrimary:
		return i18n.Primary, true
	case LanguageSecondary:
		return i18n.English, true
	}
	return "", false
}

// EventKind tags an Event.
type EventKind int

const (
	// KindStart is the entry command.
	KindStart EventKind = iota + 1
	// KindCancel is the explicit cancel command.
	KindCancel
	// KindCommand is any other slash command.
	KindCommand
	// KindInteraction is an inline button press.
	KindInteraction
	// KindText is a plain text message.
	KindText
)

func (k EventKind) String() string {
	switch k {
	case KindStart:
		return "start"
	case KindCancel:
		return "cancel"
	case KindCommand:
		return "command"
	case KindInteraction:
		return "interaction"
	case KindText:
		return "text"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Event is one inbound update, already classified by the transport.
type Event struct {
	Kind        EventKind
	Interaction Interaction
	// Text is the message body for KindText and the command name for KindCommand.
	Text string
}

// Start returns the entry command event.
func Start() Event { return Event{Kind: KindStart} }

// Cancel returns the cancel command event.
func Cancel() Event { return Event{Kind: KindCancel} }

// Command returns an event for an unhandled command.
func Command(name string) Event { return Event{Kind: KindCommand, Text: name} }

// Press returns a button press event.
func Press(i Interaction) Event { return Event{Kind: KindInteraction, Interaction: i} }

// Text returns a text message event.
func Text(body string) Event { return Event{Kind: KindText, Text: body} }
