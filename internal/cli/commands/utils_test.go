package commands

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{name: "short string unchanged", in: "report", maxLen: 10, want: "report"},
		{name: "exact length unchanged", in: "report", maxLen: 6, want: "report"},
		{name: "ascii truncated", in: "quarterly report", maxLen: 10, want: "quarter..."},
		{name: "multi-byte runes not split", in: strings.Repeat("täsk ", 4), maxLen: 10, want: "täsk tä..."},
		{name: "cjk truncated on rune boundary", in: "タスクを完了する必要がある", maxLen: 8, want: "タスクを完..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateString(tt.in, tt.maxLen)
			if got != tt.want {
				t.Errorf("truncateString(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncateString produced invalid UTF-8: %q", got)
			}
		})
	}
}
