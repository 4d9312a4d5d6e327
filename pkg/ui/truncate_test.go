package ui

import (
	"testing"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

func TestTruncate_WidthSafe(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{name: "zero max", input: "hello", maxLen: 0, want: ""},
		{name: "fits", input: "hello", maxLen: 10, want: "hello"},
		{name: "ellipsis", input: "readme.md", maxLen: 5, want: "read…"},
		{name: "wide runes", input: "日本語テキスト", maxLen: 5, want: "日本…"},
		{name: "one cell", input: "hello", maxLen: 1, want: "h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.input, tt.maxLen)
			if got != tt.want {
				t.Fatalf("truncate(%q, %d) = %q; want %q", tt.input, tt.maxLen, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Fatalf("truncate output is not valid UTF-8: %q", got)
			}
			if w := runewidth.StringWidth(got); w > tt.maxLen {
				t.Fatalf("truncate output is %d cells wide; max %d", w, tt.maxLen)
			}
		})
	}
}

func TestFit(t *testing.T) {
	if got := fit("ab", 4); got != "ab  " {
		t.Errorf("fit pad = %q", got)
	}
	if got := fit("abcdef", 4); got != "abc…" {
		t.Errorf("fit truncate = %q", got)
	}
	if got := padRight("日本", 5); got != "日本 " {
		t.Errorf("padRight wide = %q", got)
	}
	if got := singleLine(" a \n b\t"); got != "a b" {
		t.Errorf("singleLine = %q", got)
	}
}
