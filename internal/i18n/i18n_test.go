package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLanguage(t *testing.T) {
	l, ok := ParseLanguage(" EN ")
	require.True(t, ok)
	assert.Equal(t, English, l)

	_, ok = ParseLanguage("de")
	assert.False(t, ok)
	assert.Equal(t, Primary, Language("de").OrDefault())
	assert.Equal(t, Primary, Language("").OrDefault())
}

func defines(lang Language, key Key) bool {
	_, ok := catalog[lang][key]
	return ok
}

func TestEveryKeyResolvesInEveryLanguage(t *testing.T) {
	for _, lang := range Languages {
		for k := Welcome; k <= ButtonEnglish; k++ {
			assert.NotEmpty(t, Text(lang, k), "lang=%s key=%d", lang, k)
		}
	}
	for k := Welcome; k <= ButtonEnglish; k++ {
		assert.True(t, defines(Primary, k), "primary table misses key %d", k)
	}
}

func TestTextFallsBackToPrimary(t *testing.T) {
	assert.Equal(t, Text(Russian, Thinking), Text("", Thinking))
	assert.Equal(t, Text(Russian, ThankYou), Text("xx", ThankYou))

	require.False(t, defines(English, StatusNew))
	assert.Equal(t, "Новый", Text(English, StatusNew))
	assert.Equal(t, "Не указан", Text(English, UnspecifiedHandle))
}

func TestTextIsLocalized(t *testing.T) {
	assert.Contains(t, Text(English, ThankYou), "Thank you very much")
	assert.Contains(t, Text(Russian, ThankYou), "Спасибо большое")
	assert.Contains(t, Text(English, Cancelled), "Order cancelled")
	assert.Equal(t, "English", Text(English, LanguageName))
}

func TestNewUserAlertEscapesValues(t *testing.T) {
	msg := NewUserAlert(UserAlert{Handle: "ana_p", UserID: 77, FirstName: "*Ana*", Timestamp: "2025-01-02 03:04:05"})
	assert.Contains(t, msg, "*Новый пользователь в боте!*")
	assert.Contains(t, msg, `@ana\_p`)
	assert.Contains(t, msg, "User ID: 77")
	assert.Contains(t, msg, `\*Ana\*`)
	assert.Contains(t, msg, "⏰ 2025-01-02 03:04:05")
}

func TestNewOrderAlert(t *testing.T) {
	msg := NewOrderAlert(OrderAlert{
		Language:  English,
		Handle:    "ana",
		UserID:    77,
		FirstName: "Ana",
		LastName:  "Popescu",
		Phone:     "+40700000000",
		Email:     "ana_p@example.com",
		Address:   "Romania, Cluj, Str. X 1, 400001",
		Timestamp: "2025-01-02 03:04:05",
	})
	assert.Contains(t, msg, "Язык: English")
	assert.Contains(t, msg, "Имя: Ana Popescu")
	assert.Contains(t, msg, "Telegram: @ana\n")
	assert.Contains(t, msg, "Телефон: +40700000000")
	assert.Contains(t, msg, `Email: ana\_p@example.com`)
	assert.Contains(t, msg, "Romania, Cluj, Str. X 1, 400001")
	assert.Contains(t, msg, "🆔 User ID: 77")
}
