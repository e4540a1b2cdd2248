package textutil

import (
	"strings"
	"unicode"
)

// FixSpacing inserts a single space after every '.' or '?' that is
// immediately followed by a non-whitespace character. All other spacing is
// left untouched, so FixSpacing(FixSpacing(s)) == FixSpacing(s).
func FixSpacing(text string) string {
	if !strings.ContainsAny(text, ".?") {
		return text
	}
	runes := []rune(text)
	var b strings.Builder
	b.Grow(len(text) + 8)
	for i, r := range runes {
		b.WriteRune(r)
		if r != '.' && r != '?' {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
