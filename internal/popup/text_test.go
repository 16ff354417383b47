package popup

import (
	"strings"
	"testing"
)

func TestMakeItemExpandsControls(t *testing.T) {
	tests := []struct {
		in    string
		out   string
		cells int
	}{
		{"plain", "plain", 5},
		{"a\tb", "a^Ib", 4},
		{"\x01", "^A", 2},
		{"日本", "日本", 4},
	}
	for _, tt := range tests {
		out, cells := makeItem(tt.in)
		if out != tt.out || cells != tt.cells {
			t.Errorf("makeItem(%q) = %q, %d; want %q, %d", tt.in, out, cells, tt.out, tt.cells)
		}
	}
}

func TestMakeColumnNormalizes(t *testing.T) {
	tests := []struct {
		in    string
		out   string
		cells int
	}{
		{"a\r\nb", "a  b", 4},
		{"\x1b[31mred\x1b[0m", "red", 3},
		{"\x1b]0;title\x07x", "x", 1},
		{"\x1b]0;title\x1b\\x", "x", 1},
		{"a\x02b", "a^Bb", 4},
	}
	for _, tt := range tests {
		out, cells := makeColumn(tt.in)
		if out != tt.out || cells != tt.cells {
			t.Errorf("makeColumn(%q) = %q, %d; want %q, %d", tt.in, out, cells, tt.out, tt.cells)
		}
	}
}

func TestLimitCells(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		out   string
		cells int
	}{
		{"hello", 3, "hel", 3},
		{"hello", 10, "hello", 5},
		{"日本語", 5, "日本", 4}, // never splits a wide character
		{"日本語", 6, "日本語", 6},
		{"abc", 0, "", 0},
	}
	for _, tt := range tests {
		out, cells := limitCells(tt.in, tt.limit)
		if out != tt.out || cells != tt.cells {
			t.Errorf("limitCells(%q, %d) = %q, %d; want %q, %d",
				tt.in, tt.limit, out, cells, tt.out, tt.cells)
		}
	}
}

type stringSink struct {
	b strings.Builder
}

func (s *stringSink) WriteString(text string) { s.b.WriteString(text) }

func TestWriteSpaces(t *testing.T) {
	var sink stringSink
	writeSpaces(&sink, 70)
	if got := sink.b.String(); got != strings.Repeat(" ", 70) {
		t.Fatalf("wrote %d bytes", len(got))
	}
}
