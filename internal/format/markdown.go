// Package format converts a small Markdown subset into Telegram message
// entities, since Telegram renders formatting from entity annotations
// rather than inline markup.
package format

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf16"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ParseResult contains plain text and its entity annotations.
type ParseResult struct {
	Text     string
	Entities []tgbotapi.MessageEntity
}

// UTF16Len returns the UTF-16 code unit length of s. Telegram entity
// offsets and lengths count UTF-16 units, not bytes or runes.
func UTF16Len(s string) int {
	return len(utf16.Encode([]rune(s)))
}

var (
	headerRe = regexp.MustCompile(`(?m)^#{1,6}\s+(.+?)$`)
	boldRe   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	codeRe   = regexp.MustCompile("`([^`]+?)`")
	italicRe = regexp.MustCompile(`\*([^*]+?)\*`)
)

// ParseMarkdown converts headers and **bold** to bold entities, `code`
// spans to code entities and *italic* to italic entities, stripping the
// markers from the returned text.
func ParseMarkdown(text string) ParseResult {
	// Headers reduce to bold lines before marker extraction.
	text = headerRe.ReplaceAllString(text, "**$1**")

	var entities []tgbotapi.MessageEntity
	text = extract(text, boldRe, "bold", &entities)
	text = extract(text, codeRe, "code", &entities)
	// Italic runs last: double-star pairs are already gone, so single
	// stars are unambiguous.
	text = extract(text, italicRe, "italic", &entities)

	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].Offset < entities[j].Offset
	})

	return ParseResult{
		Text:     strings.TrimRight(text, " \n"),
		Entities: entities,
	}
}

// extract removes every match's markers from text and records one entity
// per match. Matches are consumed front to back so offsets stay valid as
// the text shrinks.
func extract(text string, re *regexp.Regexp, entityType string, entities *[]tgbotapi.MessageEntity) string {
	for {
		loc := re.FindStringSubmatchIndex(text)
		if loc == nil {
			return text
		}
		inner := text[loc[2]:loc[3]]
		*entities = append(*entities, tgbotapi.MessageEntity{
			Type:   entityType,
			Offset: UTF16Len(text[:loc[0]]),
			Length: UTF16Len(inner),
		})
		text = text[:loc[0]] + inner + text[loc[1]:]
	}
}
