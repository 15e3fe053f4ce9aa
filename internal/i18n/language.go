// Package i18n holds the bot's localized texts and operator message templates.
package i18n

import "strings"

// Language is one of the languages a buyer can pick.
type Language string

const (
	// Russian is the primary language; lookups without a chosen language use it.
	Russian Language = "ru"
	// English is the secondary language.
	English Language = "en"

	// Primary is the language used before the buyer chooses one.
	Primary = Russian
)

// Languages lists the supported languages in button order.
var Languages = []Language{Russian, English}

// ParseLanguage maps a language code to a Language.
func ParseLanguage(code string) (Language, bool) {
	l := Language(strings.ToLower(strings.TrimSpace(code)))
	return l, l.Valid()
}

// Valid reports whether l is a supported language.
func (l Language) Valid() bool {
	return l == Russian || l == English
}

// OrDefault returns l, or Primary when l is unset or unsupported.
func (l Language) OrDefault() Language {
	if l.Valid() {
		return l
	}
	return Primary
}

func (l Language) String() string {
	return string(l)
}
