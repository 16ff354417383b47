package popup

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// makeItem renders entry text for display: control characters expand to a
// visible two-cell ^X escape, everything else is copied verbatim. Returns
// the rendered string and its total width in cells.
func makeItem(text string) (string, int) {
	var out strings.Builder
	out.Grow(len(text))
	cells := 0
	for _, c := range text {
		if c < ' ' {
			out.WriteByte('^')
			out.WriteByte(byte(c) + '@')
			cells += 2
		} else {
			out.WriteRune(c)
			cells += runewidth.RuneWidth(c)
		}
	}
	return out.String(), cells
}

// makeColumn renders auxiliary column text. Column fields may carry embedded
// cursor/color sequences: escape sequences are consumed without contributing
// output, CR and LF each collapse to a single space, and other control
// characters expand to caret escapes like makeItem.
func makeColumn(text string) (string, int) {
	var out strings.Builder
	out.Grow(len(text))
	cells := 0
	i := 0
	for i < len(text) {
		if text[i] == 0x1b {
			i += skipEscape(text[i:])
			continue
		}
		c, size := utf8.DecodeRuneInString(text[i:])
		i += size
		switch {
		case c == '\r' || c == '\n':
			out.WriteByte(' ')
			cells++
		case c < ' ':
			out.WriteByte('^')
			out.WriteByte(byte(c) + '@')
			cells += 2
		default:
			out.WriteRune(c)
			cells += runewidth.RuneWidth(c)
		}
	}
	return out.String(), cells
}

// skipEscape returns the byte length of the escape sequence starting at
// s[0] == ESC: a CSI sequence runs to its final byte (0x40..0x7e), an OSC
// string to BEL or ST, anything else is a two-byte sequence.
func skipEscape(s string) int {
	if len(s) < 2 {
		return len(s)
	}
	switch s[1] {
	case '[':
		for i := 2; i < len(s); i++ {
			if s[i] >= 0x40 && s[i] <= 0x7e {
				return i + 1
			}
		}
		return len(s)
	case ']':
		for i := 2; i < len(s); i++ {
			if s[i] == 0x07 {
				return i + 1
			}
			if s[i] == 0x1b && i+1 < len(s) && s[i+1] == '\\' {
				return i + 2
			}
		}
		return len(s)
	default:
		return 2
	}
}

// limitCells returns the longest prefix of s whose cumulative display width
// does not exceed limit, along with the exact cell count consumed. It never
// splits a multi-byte or multi-cell character.
func limitCells(s string, limit int) (string, int) {
	cells := 0
	for i, c := range s {
		w := runewidth.RuneWidth(c)
		if cells+w > limit {
			return s[:i], cells
		}
		cells += w
	}
	return s, cells
}

const spaceRun = "                                "

// writeSpaces emits exactly n filler cells in bounded chunks.
func writeSpaces(w interface{ WriteString(string) }, n int) {
	for n > 0 {
		chunk := n
		if chunk > len(spaceRun) {
			chunk = len(spaceRun)
		}
		w.WriteString(spaceRun[:chunk])
		n -= chunk
	}
}
