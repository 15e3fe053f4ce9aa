// Package format escapes user-supplied text for Telegram parse modes.
package format

import (
	"fmt"
	"strings"
)

const (
	// MarkdownV1 denotes Telegram legacy Markdown.
	MarkdownV1 = 1
	// MarkdownV2 denotes Telegram MarkdownV2.
	MarkdownV2 = 2
)

var (
	mdV1Replacer = strings.NewReplacer(`_`, `\_`, `*`, `\*`, "`", "\\`", `[`, `\[`)
	mdV2Replacer = newReplacer("\\_*[]()~`>#+-=|{}.!")
)

func newReplacer(specials string) *strings.Replacer {
	pairs := make([]string, 0, 2*len(specials))
	for _, r := range specials {
		pairs = append(pairs, string(r), `\`+string(r))
	}
	return strings.NewReplacer(pairs...)
}

// EscapeMarkdown escapes special characters for MarkdownV1 or V2.
func EscapeMarkdown(text string, version int) (string, error) {
	switch version {
	case MarkdownV1:
		return mdV1Replacer.Replace(text), nil
	case MarkdownV2:
		return mdV2Replacer.Replace(text), nil
	}
	return "", fmt.Errorf("unsupported markdown version: %d", version)
}

// MD escapes text for legacy Markdown, the mode used by the bot's templates.
func MD(text string) string {
	s, _ := EscapeMarkdown(text, MarkdownV1)
	return s
}
