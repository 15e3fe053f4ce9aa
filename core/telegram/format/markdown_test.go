package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeMarkdownV1(t *testing.T) {
	got, err := EscapeMarkdown("ana_pop *vip* [x] `y`", MarkdownV1)
	require.NoError(t, err)
	assert.Equal(t, "ana\\_pop \\*vip\\* \\[x] \\`y\\`", got)
	assert.Equal(t, got, MD("ana_pop *vip* [x] `y`"))
}

func TestEscapeMarkdownV2(t *testing.T) {
	got, err := EscapeMarkdown("+40.700 (mob)", MarkdownV2)
	require.NoError(t, err)
	assert.Equal(t, `\+40\.700 \(mob\)`, got)
}

func TestEscapeMarkdownUnknownVersion(t *testing.T) {
	_, err := EscapeMarkdown("x", 3)
	assert.Error(t, err)
}
