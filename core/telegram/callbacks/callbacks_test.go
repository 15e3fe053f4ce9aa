package callbacks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v4"
)

func TestParseTelebotData(t *testing.T) {
	unique, payload := Parse("\flang|ru")
	assert.Equal(t, "lang", unique)
	assert.Equal(t, "ru", payload)

	unique, payload = Parse("\fterms")
	assert.Equal(t, "terms", unique)
	assert.Empty(t, payload)
}

func TestParseLegacyData(t *testing.T) {
	unique, payload := Parse("lang_ru")
	assert.Equal(t, "lang_ru", unique)
	assert.Empty(t, payload)
}

func TestSplitPrefersUnique(t *testing.T) {
	unique, payload := Split(&tele.Callback{Unique: "terms", Data: "accept"})
	assert.Equal(t, "terms", unique)
	assert.Equal(t, "accept", payload)

	unique, payload = Split(&tele.Callback{Data: "\fterms|decline"})
	assert.Equal(t, "terms", unique)
	assert.Equal(t, "decline", payload)

	unique, payload = Split(nil)
	assert.Empty(t, unique)
	assert.Empty(t, payload)
}
