package textutil

import (
	"reflect"
	"strings"
	"testing"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{"empty", "", 10, nil},
		{"whitespace only", "  \t\n ", 10, nil},
		{"fits", "hello world", 20, []string{"hello world"}},
		{"exact", "hello world", 11, []string{"hello world"}},
		{"breaks", "hello world again", 11, []string{"hello world", "again"}},
		{"collapses whitespace", "a   b\n\nc", 10, []string{"a b c"}},
		{"long word", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"long word after short", "ab cdefghij", 5, []string{"ab cd", "efghi", "j"}},
		{"runes not bytes", "ação ação", 4, []string{"ação", "ação"}},
		{"no width", "a  b c", 0, []string{"a b c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.text, tt.width)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Wrap(%q, %d) = %#v, want %#v", tt.text, tt.width, got, tt.want)
			}
		})
	}
}

func TestWrapLinesKeepsFirstLines(t *testing.T) {
	text := strings.Repeat("word ", 40)
	got := WrapLines(text, 20, 2)
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), got)
	}
	for _, line := range lines {
		if len([]rune(line)) > 20 {
			t.Fatalf("line exceeds width: %q", line)
		}
	}
	if strings.Contains(got, "...") || strings.Contains(got, "…") {
		t.Fatalf("unexpected ellipsis in %q", got)
	}
}

func TestWrapLinesEmpty(t *testing.T) {
	if got := WrapLines("   ", 60, 2); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
	if got := WrapLines("one two three", 3, 0); got != "one\ntwo\nthree" {
		t.Fatalf("expected all lines kept, got %q", got)
	}
}
