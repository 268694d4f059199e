// Package normalizer reduces arbitrary text to the restricted character set
// sent to the summarization model.
package normalizer

import (
	"strings"
	"unicode"
)

// Normalize lowercases text and keeps only ASCII letters, ASCII digits and
// periods, separated by single spaces. All other punctuation and every
// non-ASCII character is dropped. Whitespace runs collapse to one space and
// the result is trimmed. Normalize is total and idempotent.
func Normalize(text string) string {
	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))

	// A separator is emitted lazily, only between two kept characters, so
	// dropped characters never leave doubled or trailing spaces.
	pendingSpace := false
	for _, r := range text {
		switch {
		case isSpace(r):
			pendingSpace = b.Len() > 0
		case keep(r):
			if pendingSpace {
				b.WriteByte(' ')
				pendingSpace = false
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

func keep(r rune) bool {
	return ('a' <= r && r <= 'z') || ('0' <= r && r <= '9') || r == '.'
}

// isSpace matches Unicode whitespace plus the ASCII file, group, record and
// unit separators, which also split words.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}
