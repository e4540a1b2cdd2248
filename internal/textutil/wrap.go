package textutil

import "strings"

// Wrap splits text into lines of at most width runes. Whitespace runs collapse
// to single spaces, lines never start or end with whitespace, and words longer
// than width are broken across lines. A width <= 0 disables wrapping.
func Wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if width <= 0 {
		return []string{strings.Join(words, " ")}
	}

	var lines []string
	line := make([]rune, 0, width)
	for _, word := range words {
		rest := []rune(word)
		for len(rest) > 0 {
			sep := 0
			if len(line) > 0 {
				sep = 1
			}
			room := width - len(line) - sep
			if len(rest) <= room {
				if sep == 1 {
					line = append(line, ' ')
				}
				line = append(line, rest...)
				break
			}
			if len(rest) > width && room > 0 {
				if sep == 1 {
					line = append(line, ' ')
				}
				line = append(line, rest[:room]...)
				rest = rest[room:]
			}
			lines = append(lines, string(line))
			line = line[:0]
		}
	}
	if len(line) > 0 {
		lines = append(lines, string(line))
	}
	return lines
}

// WrapLines wraps text and keeps only the first maxLines lines, joined by
// newlines. Discarded lines are dropped without an ellipsis. maxLines <= 0
// keeps every line.
func WrapLines(text string, width, maxLines int) string {
	lines := Wrap(text, width)
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return strings.Join(lines, "\n")
}
