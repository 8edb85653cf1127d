package mysql

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{name: "short", in: "not found", n: 512, want: "not found"},
		{name: "exact", in: "abc", n: 3, want: "abc"},
		{name: "ascii", in: "abcdef", n: 4, want: "abcd"},
		{name: "multibyte", in: "Zürich ünavailable", n: 2, want: "Zü"},
		{name: "emoji", in: "🏨🏨🏨", n: 1, want: "🏨"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateRunes(tt.in, tt.n); got != tt.want {
				t.Fatalf("truncateRunes(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
		})
	}
}

func TestTruncateRunes_ColumnWidth(t *testing.T) {
	// 600 two-byte characters, 1200 bytes
	reason := strings.Repeat("é", 600)
	got := truncateRunes(reason, maxReasonLen)
	if !utf8.ValidString(got) || utf8.RuneCountInString(got) != maxReasonLen {
		t.Fatalf("got %d runes, valid=%v", utf8.RuneCountInString(got), utf8.ValidString(got))
	}
}
